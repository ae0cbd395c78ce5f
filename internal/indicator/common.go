package indicator

import "math"

// ema is the recursive exponential average seeded with the first value,
// alpha = 2 / (period + 1).
func ema(data []float64, period int) []float64 {
	ema := make([]float64, len(data))
	if len(data) == 0 {
		return ema
	}

	ema[0] = data[0]

	a := 2.0 / (float64(period) + 1)
	for i, val := range data[1:] {
		ema[i+1] = val*a + ema[i]*(1-a)
	}

	return ema
}

// rollingMeanStd returns the simple mean and the sample standard deviation
// over a trailing window. Entries before the first full window are NaN.
func rollingMeanStd(data []float64, window int) (mean, std []float64) {
	mean = make([]float64, len(data))
	std = make([]float64, len(data))
	for i := range data {
		if i < window-1 {
			mean[i] = math.NaN()
			std[i] = math.NaN()
			continue
		}

		w := data[i+1-window : i+1]
		var sum float64
		for _, v := range w {
			sum += v
		}
		m := sum / float64(window)

		var sq float64
		for _, v := range w {
			sq += (v - m) * (v - m)
		}

		mean[i] = m
		std[i] = math.Sqrt(sq / float64(window-1))
	}

	return
}

// rsi is Wilder's relative strength index scaled to 0..1. The first period
// entries are NaN.
func rsi(data []float64, period int) []float64 {
	res := make([]float64, len(data))
	for i := range res {
		res[i] = math.NaN()
	}
	if len(data) <= period {
		return res
	}

	var avgG, avgL float64
	for i := 1; i <= period; i++ {
		g, l := gainLoss(data[i] - data[i-1])
		avgG += g
		avgL += l
	}
	avgG /= float64(period)
	avgL /= float64(period)
	res[period] = rsiValue(avgG, avgL)

	p := float64(period)
	for i := period + 1; i < len(data); i++ {
		g, l := gainLoss(data[i] - data[i-1])
		avgG = (avgG*(p-1) + g) / p
		avgL = (avgL*(p-1) + l) / p
		res[i] = rsiValue(avgG, avgL)
	}

	return res
}

func gainLoss(diff float64) (float64, float64) {
	if diff > 0 {
		return diff, 0
	}
	return 0, -diff
}

func rsiValue(avgG, avgL float64) float64 {
	if avgL == 0 {
		if avgG == 0 {
			return 0.5
		}
		return 1
	}

	return 1 - 1/(1+avgG/avgL)
}
