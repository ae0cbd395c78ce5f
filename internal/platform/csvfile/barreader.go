package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/platform/common"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type barFilter func(b market.Bar) bool

type barResult struct {
	bar market.Bar
	err error
}

type barReader struct {
	rdr    *csv.Reader
	filter barFilter
}

func newBarReader(r io.Reader) *barReader {
	return newBarReaderWithFilter(r, func(b market.Bar) bool { return true })
}

func newBarReaderWithFilter(r io.Reader, filter barFilter) *barReader {
	rdr := csv.NewReader(bufio.NewReader(r))
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true

	return &barReader{
		rdr:    rdr,
		filter: filter,
	}
}

// Read streams bars from the csv body. A failed row ends the stream with a
// single error result.
func (b *barReader) Read(ctx context.Context) <-chan barResult {
	out := make(chan barResult, 64)

	go func() {
		defer close(out)

		send := func(r barResult) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if _, err := b.rdr.Read(); err != nil {
			send(barResult{err: fmt.Errorf("failed to read csv header: %w", err)})
			return
		}

		for {
			data, err := b.rdr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				send(barResult{err: fmt.Errorf("failed to read bar data: %w", err)})
				return
			}

			bar, err := parseBar(data)
			if err != nil {
				line, _ := b.rdr.FieldPos(0)
				send(barResult{err: fmt.Errorf("line %d: %w", line, err)})
				return
			}

			if !b.filter(bar) {
				continue
			}
			if !send(barResult{bar: bar}) {
				return
			}
		}
	}()

	return out
}

func parseBar(data []string) (market.Bar, error) {
	if len(data) < 6 {
		return market.Bar{}, fmt.Errorf("expected 6 columns, got %d", len(data))
	}

	ts, err := parseTime(data[0])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse bar time: %w", err)
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := range vals {
		vals[i], err = common.ParsePrice(data[i+1])
		if err != nil {
			return market.Bar{}, fmt.Errorf("failed to read %s: %w", names[i], err)
		}
	}

	return market.Bar{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// parseTime accepts unix seconds (optionally fractional) or a textual
// timestamp in UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(int64(sec), 0).UTC(), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unknown time format: %q", s)
}
