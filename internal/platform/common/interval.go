package common

import (
	"fmt"
	"time"
)

var intervalCodes = []struct {
	d    time.Duration
	code string
}{
	{time.Minute, "1m"},
	{3 * time.Minute, "3m"},
	{5 * time.Minute, "5m"},
	{15 * time.Minute, "15m"},
	{30 * time.Minute, "30m"},
	{time.Hour, "1h"},
	{2 * time.Hour, "2h"},
	{4 * time.Hour, "4h"},
	{6 * time.Hour, "6h"},
	{8 * time.Hour, "8h"},
	{12 * time.Hour, "12h"},
	{24 * time.Hour, "1d"},
	{3 * 24 * time.Hour, "3d"},
	{7 * 24 * time.Hour, "1w"},
}

// IntervalCode maps a bar duration to the exchange kline interval code.
func IntervalCode(d time.Duration) (string, error) {
	for _, ic := range intervalCodes {
		if ic.d == d {
			return ic.code, nil
		}
	}

	return "", fmt.Errorf("unsupported bar interval: %s", d)
}
