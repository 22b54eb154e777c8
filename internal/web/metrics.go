package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vitos/portfolio_rotation/internal/usecase"
)

// Metrics exposes cycle outcomes to Prometheus.
type Metrics struct {
	cyclesTotal    *prometheus.CounterVec
	rotationsTotal prometheus.Counter
	portfolioValue prometheus.Gauge
	totalReturnPct prometheus.Gauge
	numPositions   prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		cyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rotation_agent_cycles_total",
			Help: "Evaluation cycles run, by recommendation.",
		}, []string{"recommendation"}),
		rotationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rotation_agent_rotations_total",
			Help: "Rotations executed.",
		}),
		portfolioValue: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rotation_agent_portfolio_value",
			Help: "Current total portfolio value.",
		}),
		totalReturnPct: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rotation_agent_total_return_pct",
			Help: "Total return percentage since inception.",
		}),
		numPositions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rotation_agent_positions",
			Help: "Number of open positions.",
		}),
	}
}

// ObserveCycle records one completed cycle.
func (m *Metrics) ObserveCycle(report *usecase.CycleReport) {
	if m == nil || report == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(report.Recommendation).Inc()
	if report.Recommendation == usecase.RecommendRotate {
		m.rotationsTotal.Inc()
	}
	if report.PortfolioState != nil {
		m.portfolioValue.Set(report.PortfolioState.CurrentValue)
		m.totalReturnPct.Set(report.PortfolioState.TotalReturnPct)
		m.numPositions.Set(float64(report.PortfolioState.NumPositions))
	}
}
