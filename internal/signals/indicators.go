// Package signals provides technical indicator calculations over daily
// price series. Each indicator returns a series the same length as its
// input; positions without enough trailing history carry Valid=false and
// must be treated as "not evaluable", never as zero.
package signals

// Value is one indicator observation. Valid is false when the position
// has insufficient trailing history to compute the indicator.
type Value struct {
	Float64 float64
	Valid   bool
}

// RSI calculates the Relative Strength Index over a rolling window of
// `period` bars. Values are defined from index `period` onward; a flat
// window (no gains and no losses) is not computable.
func RSI(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(closes); i++ {
		var avgGain, avgLoss float64
		for j := i - period + 1; j <= i; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)

		switch {
		case avgGain == 0 && avgLoss == 0:
			// 0/0: not computable
		case avgLoss == 0:
			out[i] = Value{Float64: 100, Valid: true}
		default:
			rs := avgGain / avgLoss
			out[i] = Value{Float64: 100 - 100/(1+rs), Valid: true}
		}
	}
	return out
}

// MACD calculates the Moving Average Convergence Divergence: the fast
// EMA minus the slow EMA, the signal EMA of that difference, and the
// histogram (MACD line minus signal line). A series shorter than
// slow+signal bars yields an entirely undefined result.
func MACD(closes []float64, fast, slow, signal int) (macdLine, signalLine, histogram []Value) {
	n := len(closes)
	macdLine = make([]Value, n)
	signalLine = make([]Value, n)
	histogram = make([]Value, n)
	if n < slow+signal {
		return macdLine, signalLine, histogram
	}

	fastEMA := ewm(closes, fast)
	slowEMA := ewm(closes, slow)

	diff := make([]float64, n)
	for i := 0; i < n; i++ {
		diff[i] = fastEMA[i] - slowEMA[i]
	}
	sig := ewm(diff, signal)

	for i := 0; i < n; i++ {
		macdLine[i] = Value{Float64: diff[i], Valid: true}
		signalLine[i] = Value{Float64: sig[i], Valid: true}
		histogram[i] = Value{Float64: diff[i] - sig[i], Valid: true}
	}
	return macdLine, signalLine, histogram
}

// VolumeRatio calculates current volume over the trailing window-bar
// mean volume. Values are defined from index window-1 onward.
func VolumeRatio(volumes []float64, window int) []Value {
	out := make([]Value, len(volumes))
	if len(volumes) < window {
		return out
	}

	for i := window - 1; i < len(volumes); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += volumes[j]
		}
		avg := sum / float64(window)
		if avg == 0 {
			continue
		}
		out[i] = Value{Float64: volumes[i] / avg, Valid: true}
	}
	return out
}

// ewm computes a span-based exponential moving average with weights
// normalized over the observed history, so early values are averages of
// what has been seen rather than biased toward the first sample.
func ewm(values []float64, span int) []float64 {
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = v + (1-alpha)*num
		den = 1 + (1-alpha)*den
		out[i] = num / den
	}
	return out
}

// Last returns the final value of a series, or an invalid Value for an
// empty series.
func Last(series []Value) Value {
	if len(series) == 0 {
		return Value{}
	}
	return series[len(series)-1]
}

// At returns the value `back` positions from the end (0 is the last
// bar), or an invalid Value when the series is too short.
func At(series []Value, back int) Value {
	idx := len(series) - 1 - back
	if idx < 0 {
		return Value{}
	}
	return series[idx]
}
