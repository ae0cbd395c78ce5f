package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	tbl := []struct {
		in  int
		out Signal
		err bool
	}{
		{in: 1, out: SignalLong},
		{in: 0, out: SignalFlat},
		{in: -1, out: SignalShort},
		{in: 2, err: true},
		{in: -2, err: true},
		{in: 257, err: true},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			s, err := ParseSignal(c.in)
			if c.err {
				require.ErrorIs(t, err, ErrInvalidSignal)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, c.out, s)
		})
	}
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "long", SignalLong.String())
	assert.Equal(t, "short", SignalShort.String())
	assert.Equal(t, "flat", SignalFlat.String())
	assert.Equal(t, "signal_5", Signal(5).String())
}
