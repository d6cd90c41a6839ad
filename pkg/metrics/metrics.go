package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts mutating and read operations by name and outcome.
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundmanager_operations_total",
			Help: "Total operations handled, by operation and status",
		},
		[]string{"operation", "status"},
	)

	// Replays counts full amortization replays.
	Replays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fundmanager_replays_total",
			Help: "Total amortization ledger replays",
		},
	)

	// Errors counts operation failures by error kind.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundmanager_errors_total",
			Help: "Total operation errors, by kind",
		},
		[]string{"kind"},
	)
)
