package signals_test

import (
	"math"
	"testing"

	"github.com/vitos/portfolio_rotation/internal/signals"
)

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRSIUndefinedPrefix(t *testing.T) {
	closes := rising(30, 100, 1)
	rsi := signals.RSI(closes, 14)

	if len(rsi) != len(closes) {
		t.Fatalf("length = %d, want %d", len(rsi), len(closes))
	}
	for i := 0; i < 14; i++ {
		if rsi[i].Valid {
			t.Errorf("index %d: expected invalid, got %v", i, rsi[i].Float64)
		}
	}
	for i := 14; i < len(rsi); i++ {
		if !rsi[i].Valid {
			t.Errorf("index %d: expected valid", i)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	// No losses in any window: RSI pegs at 100.
	rsi := signals.RSI(rising(30, 100, 1), 14)
	last := signals.Last(rsi)
	if !last.Valid || last.Float64 != 100 {
		t.Errorf("RSI = %+v, want 100", last)
	}
}

func TestRSIFlatSeriesUndefined(t *testing.T) {
	rsi := signals.RSI(flat(30, 100), 14)
	for i, v := range rsi {
		if v.Valid {
			t.Errorf("index %d: flat series should be undefined, got %v", i, v.Float64)
		}
	}
}

func TestRSIShortSeries(t *testing.T) {
	rsi := signals.RSI(rising(14, 100, 1), 14)
	for i, v := range rsi {
		if v.Valid {
			t.Errorf("index %d: series shorter than period+1 should be undefined", i)
		}
	}
}

func TestRSIRange(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i%3 == 0 {
			price -= 1.5
		} else {
			price += 1.0
		}
		closes[i] = price
	}

	for i, v := range signals.RSI(closes, 14) {
		if v.Valid && (v.Float64 < 0 || v.Float64 > 100) {
			t.Errorf("index %d: RSI %v out of [0,100]", i, v.Float64)
		}
	}
}

func TestMACDShortSeriesUndefined(t *testing.T) {
	// 34 bars < slow+signal = 35: everything undefined.
	macd, sig, hist := signals.MACD(rising(34, 100, 1), 12, 26, 9)
	for i := range macd {
		if macd[i].Valid || sig[i].Valid || hist[i].Valid {
			t.Fatalf("index %d: expected undefined result", i)
		}
	}
}

func TestMACDHistogramIsDifference(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i%4 == 0 {
			price -= 2
		} else {
			price += 1.2
		}
		closes[i] = price
	}

	macd, sig, hist := signals.MACD(closes, 12, 26, 9)
	for i := range closes {
		if !macd[i].Valid || !sig[i].Valid || !hist[i].Valid {
			t.Fatalf("index %d: expected valid result", i)
		}
		want := macd[i].Float64 - sig[i].Float64
		if math.Abs(hist[i].Float64-want) > 1e-9 {
			t.Errorf("index %d: histogram = %v, want %v", i, hist[i].Float64, want)
		}
	}
}

func TestMACDUptrendPositive(t *testing.T) {
	// Sustained uptrend: fast EMA above slow, MACD line positive.
	macd, _, _ := signals.MACD(rising(60, 100, 1), 12, 26, 9)
	last := signals.Last(macd)
	if !last.Valid || last.Float64 <= 0 {
		t.Errorf("MACD = %+v, want positive", last)
	}
}

func TestVolumeRatio(t *testing.T) {
	volumes := []float64{10, 10, 10, 10, 30}
	ratios := signals.VolumeRatio(volumes, 3)

	if ratios[0].Valid || ratios[1].Valid {
		t.Error("expected undefined before window fills")
	}
	last := signals.Last(ratios)
	want := 30.0 / ((10 + 10 + 30) / 3.0)
	if !last.Valid || math.Abs(last.Float64-want) > 1e-9 {
		t.Errorf("ratio = %+v, want %v", last, want)
	}
}

func TestVolumeRatioZeroVolume(t *testing.T) {
	for i, v := range signals.VolumeRatio(flat(10, 0), 3) {
		if v.Valid {
			t.Errorf("index %d: zero-volume window should be undefined", i)
		}
	}
}

func TestLastAndAt(t *testing.T) {
	if signals.Last(nil).Valid {
		t.Error("Last of empty series should be invalid")
	}
	series := []signals.Value{{Float64: 1, Valid: true}, {Float64: 2, Valid: true}}
	if got := signals.Last(series); got.Float64 != 2 {
		t.Errorf("Last = %v, want 2", got.Float64)
	}
	if got := signals.At(series, 1); got.Float64 != 1 {
		t.Errorf("At(1) = %v, want 1", got.Float64)
	}
	if signals.At(series, 5).Valid {
		t.Error("At beyond start should be invalid")
	}
}
