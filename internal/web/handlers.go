package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.agent.PortfolioSnapshot()
	s.writeJSON(w, map[string]interface{}{
		"status":           "ok",
		"portfolio_value":  snap.CurrentValue,
		"total_return_pct": snap.TotalReturnPct,
		"num_positions":    snap.NumPositions,
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.agent.PortfolioSnapshot())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	report := s.agent.LastReport()
	if report == nil {
		http.Error(w, "No cycle has run yet", http.StatusNotFound)
		return
	}
	s.writeJSON(w, report.TradePlan)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	report := s.agent.LastReport()
	if report == nil {
		http.Error(w, "No cycle has run yet", http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"scores": report.WatchlistScores,
		"prices": report.Prices,
		"alerts": report.Alerts,
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "Trade journal not configured", http.StatusNotFound)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	trades, err := s.journal.ListTrades(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list trades", zap.Error(err))
		http.Error(w, "Failed to list trades", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, trades)
}

func (s *Server) handleSeedPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string  `json:"ticker"`
		Shares int     `json:"shares"`
		Price  float64 `json:"price"`
		Score  float64 `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Ticker == "" || req.Shares <= 0 || req.Price <= 0 {
		http.Error(w, "ticker, shares and price are required", http.StatusBadRequest)
		return
	}

	if !s.agent.SeedPosition(r.Context(), req.Ticker, req.Shares, req.Price, req.Score) {
		http.Error(w, "Insufficient cash", http.StatusUnprocessableEntity)
		return
	}
	s.writeJSON(w, s.agent.PortfolioSnapshot())
}

func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") != "false"

	report, err := s.agent.RunCycle(r.Context(), dryRun)
	if err != nil {
		s.logger.Error("Cycle failed", zap.Error(err))
		http.Error(w, "Cycle failed", http.StatusInternalServerError)
		return
	}

	s.metrics.ObserveCycle(report)
	s.writeJSON(w, report)
}
