package csvfile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBars(t *testing.T, ctx context.Context, br *barReader) ([]market.Bar, error) {
	t.Helper()

	var bars []market.Bar
	for b := range br.Read(ctx) {
		if b.err != nil {
			return bars, b.err
		}
		bars = append(bars, b.bar)
	}

	return bars, nil
}

func TestRead(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	br := newBarReader(strings.NewReader(`timestamp,open,high,low,close,volume
1460413380.0,421.07,521.07,321.06,121.06,1.192`))

	bars, err := readBars(t, ctx, br)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Unix(1460413380, 0).UTC(), bars[0].Time)
	assert.Equal(t, 421.07, bars[0].Open)
	assert.Equal(t, 521.07, bars[0].High)
	assert.Equal(t, 321.06, bars[0].Low)
	assert.Equal(t, 121.06, bars[0].Close)
	assert.Equal(t, 1.192, bars[0].Volume)
}

func TestReadFilter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	br := newBarReaderWithFilter(strings.NewReader(`timestamp,open,high,low,close,volume
1390134600.0,800.0,800.0,800.0,800.0,0.0
1437452040.0,279.22,279.22,279.22,279.22,0.0
1460413380.0,421.07,521.07,321.06,121.06,1.192
1553889480.0,4080.0,4080.1,4080.0,4080.1,2.035854
1758127500.0,115510,115510,115482,115493,1.05828858
1758152940.0,116570,116577,116569,116574,1.60268598
`), func(b market.Bar) bool {
		return b.Time.After(time.Unix(1437452040, 0)) && b.Time.Before(time.Unix(1758127500, 0))
	})

	bars, err := readBars(t, ctx, br)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, time.Unix(1460413380, 0).UTC(), bars[0].Time)
	assert.Equal(t, time.Unix(1553889480, 0).UTC(), bars[1].Time)
}

func TestRead_timeFormats(t *testing.T) {
	tbl := []struct {
		in  string
		out time.Time
	}{
		{"1704067200", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T01:00:00Z", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)},
		{"2024-01-01 02:30:00", time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			br := newBarReader(strings.NewReader("t,o,h,l,c,v\n" + c.in + ",1,2,0.5,1.5,10\n"))

			bars, err := readBars(t, context.Background(), br)
			require.NoError(t, err)
			require.Len(t, bars, 1)
			assert.True(t, c.out.Equal(bars[0].Time))
		})
	}
}

func TestRead_errors(t *testing.T) {
	tbl := []string{
		"",
		"t,o,h,l,c,v\nyesterday,1,2,0.5,1.5,10\n",
		"t,o,h,l,c,v\n1704067200,1,2,0.5,x,10\n",
		"t,o,h,l,c,v\n1704067200,1,2,0.5\n",
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			_, err := readBars(t, context.Background(), newBarReader(strings.NewReader(c)))
			assert.Error(t, err)
		})
	}
}
