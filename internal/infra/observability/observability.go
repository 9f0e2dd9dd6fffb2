// Package observability holds the Prometheus metrics for the replay engine
// and the inspection API. Metrics are registered with the default registry
// via promauto and exposed on /metrics when the API has them enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine Metrics ─────────────────────────────────────────────────────────

// TransactionsApplied counts applied transactions by type.
var TransactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tally",
	Subsystem: "engine",
	Name:      "transactions_applied_total",
	Help:      "Total transactions applied, by transaction type.",
}, []string{"type"})

// TransactionsDropped counts absorbed transactions by drop reason.
var TransactionsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tally",
	Subsystem: "engine",
	Name:      "transactions_dropped_total",
	Help:      "Total transactions absorbed without applying, by reason.",
}, []string{"reason"})

// AccountsTracked tracks the number of accounts in the store.
var AccountsTracked = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tally",
	Subsystem: "engine",
	Name:      "accounts",
	Help:      "Number of client accounts created so far.",
})

// JournalEntries tracks the number of journaled standard transactions.
var JournalEntries = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tally",
	Subsystem: "engine",
	Name:      "journal_entries",
	Help:      "Number of journaled standard transactions.",
})

// ─── Replay Metrics ─────────────────────────────────────────────────────────

// ReplayDuration tracks wall-clock duration of complete replays.
var ReplayDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "tally",
	Subsystem: "replay",
	Name:      "duration_seconds",
	Help:      "Wall-clock duration of a full replay run.",
	Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
})

// ReplayRows counts decoded input rows across runs.
var ReplayRows = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tally",
	Subsystem: "replay",
	Name:      "rows_total",
	Help:      "Total input rows decoded across replay runs.",
})

// DecodeFailures counts fatal decode failures.
var DecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tally",
	Subsystem: "replay",
	Name:      "decode_failures_total",
	Help:      "Total malformed rows that aborted a run.",
})
