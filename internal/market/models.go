package market

import (
	"errors"
	"fmt"
	"time"
)

type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type Signal int8

const (
	SignalShort Signal = -1
	SignalFlat  Signal = 0
	SignalLong  Signal = 1
)

var ErrInvalidSignal = errors.New("invalid signal")

// ParseSignal converts a raw producer value into a Signal. Anything outside
// {-1, 0, 1} is rejected instead of being read as flat.
func ParseSignal(v int) (Signal, error) {
	s := Signal(v)
	if int(s) != v || !s.Valid() {
		return SignalFlat, fmt.Errorf("%w: %d", ErrInvalidSignal, v)
	}

	return s, nil
}

func (s Signal) Valid() bool {
	return s == SignalShort || s == SignalFlat || s == SignalLong
}

func (s Signal) String() string {
	switch s {
	case SignalLong:
		return "long"
	case SignalFlat:
		return "flat"
	case SignalShort:
		return "short"
	default:
		return fmt.Sprintf("signal_%d", s)
	}
}
