package market

import (
	"time"
)

type IdentityAggregator struct {
}

func (a *IdentityAggregator) Aggregate(bars <-chan Bar) <-chan Bar {
	return bars
}

// IntervalAggregator merges consecutive bars of BarDuration into buckets
// aligned to Interval. A trailing partial bucket is emitted when the input
// channel closes.
type IntervalAggregator struct {
	BarDuration time.Duration
	Interval    time.Duration
}

func (a *IntervalAggregator) Aggregate(bars <-chan Bar) <-chan Bar {
	res := make(chan Bar)
	go func() {
		defer close(res)

		var cur *Bar
		var end time.Time
		for b := range bars {
			if cur != nil && !b.Time.Before(end) {
				res <- *cur
				cur = nil
			}

			if cur == nil {
				end = b.Time.Truncate(a.Interval).Add(a.Interval)
				cur = &Bar{
					Time: b.Time,
					Open: b.Open,
					High: b.High,
					Low:  b.Low,
				}
			}

			cur.Close = b.Close
			cur.High = max(cur.High, b.High)
			cur.Low = min(cur.Low, b.Low)
			cur.Volume += b.Volume

			bEnd := b.Time.Add(a.BarDuration)
			if !bEnd.Before(end) {
				res <- *cur
				cur = nil
			}
		}

		if cur != nil {
			res <- *cur
		}
	}()

	return res
}

type aggregator interface {
	Aggregate(bars <-chan Bar) <-chan Bar
}

// Resample runs a slice through an aggregator and collects the output.
func Resample(a aggregator, bars []Bar) []Bar {
	in := make(chan Bar)
	go func() {
		defer close(in)
		for _, b := range bars {
			in <- b
		}
	}()

	out := make([]Bar, 0, len(bars))
	for b := range a.Aggregate(in) {
		out = append(out, b)
	}

	return out
}
