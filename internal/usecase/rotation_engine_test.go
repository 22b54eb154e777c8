package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/usecase"
)

func portfolioHolding(t *testing.T, ticker string, shares int, price, score float64) *domain.Portfolio {
	t.Helper()
	p := domain.NewPortfolio(10000)
	require.True(t, p.AddPosition(ticker, shares, price, score, "seed"))
	return p
}

func TestEvaluateRotations(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	candidates := engine.EvaluateRotations(p, map[string]float64{
		"MSFT": 0.60, // gain 0.10, above threshold
		"ORCL": 0.51, // gain 0.01, below threshold
		"AAPL": 0.90, // held, never a buy candidate
	})

	require.Len(t, candidates, 1)
	assert.Equal(t, "AAPL", candidates[0].SellTicker)
	assert.Equal(t, "MSFT", candidates[0].BuyTicker)
	assert.InDelta(t, 0.10, candidates[0].Gain, 1e-9)
}

func TestEvaluateRotationsNeverIntoHeldTicker(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := domain.NewPortfolio(10000)
	require.True(t, p.AddPosition("AAPL", 10, 100, 0.5, "seed"))
	require.True(t, p.AddPosition("MSFT", 10, 100, 0.5, "seed"))

	candidates := engine.EvaluateRotations(p, map[string]float64{"MSFT": 0.99})
	assert.Empty(t, candidates)
}

func TestEvaluateRotationsSortedByGain(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	candidates := engine.EvaluateRotations(p, map[string]float64{
		"MSFT": 0.60,
		"NVDA": 0.70,
	})

	require.Len(t, candidates, 2)
	assert.Equal(t, "NVDA", candidates[0].BuyTicker)
	assert.Equal(t, "MSFT", candidates[1].BuyTicker)
}

func TestEvaluateRotationsCustomThreshold(t *testing.T) {
	engine := usecase.NewRotationEngineWithThreshold(0.5)
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	candidates := engine.EvaluateRotations(p, map[string]float64{"MSFT": 0.60})
	assert.Empty(t, candidates)
}

func TestGetBestRotation(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	rotation := engine.GetBestRotation(p, map[string]float64{
		"AAPL": 0.30,
		"MSFT": 0.60,
	}, map[string]float64{"AAPL": 100, "MSFT": 200})

	require.NotNil(t, rotation)
	assert.Equal(t, "AAPL", rotation.SellTicker)
	assert.Equal(t, "MSFT", rotation.BuyTicker)
	assert.InDelta(t, 0.10, rotation.Gain, 1e-9)
	// The reason compares watchlist scores of both tickers.
	assert.Equal(t, "Score improved from 0.300 to 0.600 (+0.100)", rotation.Reason)
}

func TestGetBestRotationNone(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := domain.NewPortfolio(10000)

	rotation := engine.GetBestRotation(p, map[string]float64{"MSFT": 0.9}, nil)
	assert.Nil(t, rotation)
}

func TestShouldExecuteRotation(t *testing.T) {
	engine := usecase.NewRotationEngine()

	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)
	assert.True(t, engine.ShouldExecuteRotation(p, 10))

	drained := domain.NewPortfolio(1000)
	require.True(t, drained.AddPosition("AAPL", 10, 100, 0.5, "all in"))
	assert.False(t, engine.ShouldExecuteRotation(drained, 10))
}

func TestExecuteRotationErrors(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	err := engine.ExecuteRotation(p, "AAPL", "MSFT", map[string]float64{"AAPL": 100}, 0.6, "r")
	assert.ErrorIs(t, err, usecase.ErrPriceDataMissing)

	err = engine.ExecuteRotation(p, "AAPL", "MSFT", map[string]float64{"AAPL": -1, "MSFT": 200}, 0.6, "r")
	assert.ErrorIs(t, err, usecase.ErrInvalidPrices)

	// Proceeds of 1000 cannot buy one share at this price.
	err = engine.ExecuteRotation(p, "AAPL", "MSFT", map[string]float64{"AAPL": 100, "MSFT": 1e6}, 0.6, "r")
	assert.ErrorIs(t, err, usecase.ErrRotationFailed)

	// Ledger untouched after every failure.
	assert.NotNil(t, p.Position("AAPL"))
	assert.Nil(t, p.Position("MSFT"))
	assert.Len(t, p.Trades, 1)
}

func TestExecuteRotationSuccess(t *testing.T) {
	engine := usecase.NewRotationEngine()
	p := portfolioHolding(t, "AAPL", 10, 100, 0.5)

	err := engine.ExecuteRotation(p, "AAPL", "MSFT", map[string]float64{"AAPL": 100, "MSFT": 200}, 0.6, "score improved")
	require.NoError(t, err)

	assert.Nil(t, p.Position("AAPL"))
	pos := p.Position("MSFT")
	require.NotNil(t, pos)
	assert.Equal(t, 5, pos.Shares)
	assert.Equal(t, map[string]string{"AAPL": "MSFT"}, engine.LastRotations())
}
