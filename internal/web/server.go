package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitos/portfolio_rotation/internal/domain"
	"github.com/vitos/portfolio_rotation/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router  *http.ServeMux
	server  *http.Server
	agent   *usecase.AgentService
	journal domain.TradeJournal
	metrics *Metrics
	logger  *zap.Logger
}

func NewServer(
	port int,
	agent *usecase.AgentService,
	journal domain.TradeJournal,
	metrics *Metrics,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		agent:   agent,
		journal: journal,
		metrics: metrics,
		logger:  logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)

	// Portfolio state
	s.router.HandleFunc("GET /api/portfolio", s.handlePortfolio)

	// Latest cycle
	s.router.HandleFunc("GET /api/plan", s.handlePlan)
	s.router.HandleFunc("GET /api/scores", s.handleScores)

	// Trade history
	s.router.HandleFunc("GET /api/trades", s.handleTrades)

	// Bootstrap a holding outside the rotation flow
	s.router.HandleFunc("POST /api/positions", s.handleSeedPosition)

	// Trigger an on-demand cycle
	s.router.HandleFunc("POST /api/cycle", s.handleRunCycle)

	// Prometheus
	s.router.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
