// Package api provides the read-only HTTP inspection server for a
// completed replay. Ingestion is single-threaded and finishes before the
// server starts, so every handler serves an immutable result and needs no
// synchronization.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tally-ledger/tally/internal/app/replay"
	"github.com/tally-ledger/tally/internal/domain"
)

// Server serves account snapshots, journal entries, and run statistics.
type Server struct {
	accounts       domain.AccountStore
	journal        domain.Journal
	report         replay.Report
	precision      int32
	metricsEnabled bool
}

// NewServer creates a server over a completed replay.
func NewServer(accounts domain.AccountStore, journal domain.Journal, report replay.Report, precision int) *Server {
	return &Server{
		accounts:  accounts,
		journal:   journal,
		report:    report,
		precision: int32(precision),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", s.handleListAccounts)
		r.Get("/accounts/{client}", s.handleGetAccount)
		r.Get("/journal/{tx}", s.handleGetJournalEntry)
		r.Get("/stats", s.handleStats)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	snapshot := s.accounts.Snapshot()
	out := make([]accountJSON, 0, len(snapshot))
	for _, a := range snapshot {
		out = append(out, s.accountToJSON(a))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accounts": out})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	client, err := strconv.ParseUint(chi.URLParam(r, "client"), 10, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "client id must be an unsigned 16-bit integer")
		return
	}
	account := s.accounts.Get(uint16(client))
	if account == nil {
		writeError(w, http.StatusNotFound, "no such account")
		return
	}
	writeJSON(w, http.StatusOK, s.accountToJSON(*account))
}

func (s *Server) handleGetJournalEntry(w http.ResponseWriter, r *http.Request) {
	tx, err := strconv.ParseUint(chi.URLParam(r, "tx"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "tx id must be an unsigned 32-bit integer")
		return
	}
	entry := s.journal.Get(uint32(tx))
	if entry == nil {
		writeError(w, http.StatusNotFound, "no such journal entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tx":       entry.TX,
		"client":   entry.Client,
		"type":     entry.Type,
		"amount":   entry.Amount.StringFixed(s.precision),
		"disputed": entry.Disputed,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":          s.report.RunID.String(),
		"source":          s.report.Source,
		"rows":            s.report.Rows,
		"duration_ms":     s.report.Duration().Milliseconds(),
		"stats":           s.report.Stats,
		"accounts":        s.accounts.Len(),
		"journal_entries": s.journal.Len(),
	})
}

// ─── JSON Helpers ───────────────────────────────────────────────────────────

type accountJSON struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func (s *Server) accountToJSON(a domain.Account) accountJSON {
	return accountJSON{
		Client:    a.Client,
		Available: a.Available.StringFixed(s.precision),
		Held:      a.Held.StringFixed(s.precision),
		Total:     a.Total.StringFixed(s.precision),
		Locked:    a.Locked,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
