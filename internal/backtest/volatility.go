package backtest

import (
	"fmt"
	"math"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

func trueRange(b market.Bar, prevClose float64, hasPrev bool) float64 {
	tr := b.High - b.Low
	if !hasPrev {
		return tr
	}

	return max(tr, math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose))
}

// TrueRange returns the true range of every bar. The first bar has no
// previous close, so its range is high - low.
func TrueRange(bars []market.Bar) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = trueRange(b, 0, false)
			continue
		}
		tr[i] = trueRange(b, bars[i-1].Close, true)
	}

	return tr
}

// ATRTracker computes the average true range one bar at a time. Until
// period bars have been seen the mean covers the bars received so far.
type ATRTracker struct {
	period    int
	window    []float64
	head      int
	count     int
	prevClose float64
	hasPrev   bool
}

func NewATRTracker(period int) (*ATRTracker, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: atr period must be positive, got %d", ErrInvalidParameter, period)
	}

	return &ATRTracker{
		period: period,
		window: make([]float64, period),
	}, nil
}

func (t *ATRTracker) Update(b market.Bar) float64 {
	tr := trueRange(b, t.prevClose, t.hasPrev)
	t.prevClose = b.Close
	t.hasPrev = true

	t.window[t.head] = tr
	t.head = (t.head + 1) % t.period
	if t.count < t.period {
		t.count++
	}

	// oldest to newest, so the sum does not depend on the ring offset
	start := (t.head - t.count + t.period) % t.period
	var sum float64
	for k := 0; k < t.count; k++ {
		sum += t.window[(start+k)%t.period]
	}

	return sum / float64(t.count)
}

// ATR returns the average true range series aligned with bars.
func ATR(bars []market.Bar, period int) ([]float64, error) {
	t, err := NewATRTracker(period)
	if err != nil {
		return nil, err
	}

	atr := make([]float64, len(bars))
	for i, b := range bars {
		atr[i] = t.Update(b)
	}

	return atr, nil
}
