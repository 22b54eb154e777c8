package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/portfolio_rotation/internal/usecase"
)

func TestCalculateSize(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	tests := []struct {
		score float64
		want  float64
	}{
		{0.0, 0.50},
		{0.5, 0.70},
		{1.0, 0.90},
	}
	for _, tt := range tests {
		got, err := sizer.CalculateSize(tt.score)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "score %v", tt.score)
	}
}

func TestCalculateSizeMonotonic(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	prev := 0.0
	for score := 0.0; score <= 1.0; score += 0.05 {
		size, err := sizer.CalculateSize(score)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, size, prev)
		assert.GreaterOrEqual(t, size, 0.10)
		assert.LessOrEqual(t, size, 0.90)
		prev = size
	}
}

func TestCalculateSizeRejectsOutOfRange(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	_, err := sizer.CalculateSize(-0.01)
	assert.Error(t, err)
	_, err = sizer.CalculateSize(1.01)
	assert.Error(t, err)
}

func TestCalculateShares(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	// 10000 * 0.70 / 150 = 46.67, rounded down.
	assert.Equal(t, 46, sizer.CalculateShares(10000, 0.70, 150))
	assert.Equal(t, 0, sizer.CalculateShares(10000, 0.70, 0))
	assert.Equal(t, 0, sizer.CalculateShares(10000, 0.70, -5))
	assert.Equal(t, 0, sizer.CalculateShares(100, 0.10, 150))
}

func TestKellyFormula(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	edge, odds, fraction, err := sizer.KellyFormula(0.6, 100, 50)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, edge, 1e-9)
	assert.InDelta(t, 2.0, odds, 1e-9)
	// Raw fraction 20 is clamped to the position cap.
	assert.InDelta(t, 0.90, fraction, 1e-9)
}

func TestKellyFormulaNegativeEdgeClampsToZero(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	edge, _, fraction, err := sizer.KellyFormula(0.2, 10, 100)
	require.NoError(t, err)
	assert.Less(t, edge, 0.0)
	assert.Zero(t, fraction)
}

func TestKellyFormulaRejectsInvalidInputs(t *testing.T) {
	sizer := usecase.NewPositionSizer()

	_, _, _, err := sizer.KellyFormula(1.5, 10, 10)
	assert.Error(t, err)
	_, _, _, err = sizer.KellyFormula(0.5, 0, 10)
	assert.Error(t, err)
	_, _, _, err = sizer.KellyFormula(0.5, 10, -1)
	assert.Error(t, err)
}
