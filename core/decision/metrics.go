package decision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ufundi",
			Subsystem: "decisions",
			Name:      "applied_total",
			Help:      "Status transitions applied, by entity kind and target status.",
		},
		[]string{"kind", "status"},
	)

	decisionsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ufundi",
			Subsystem: "decisions",
			Name:      "skipped_total",
			Help:      "Decision attempts skipped, by entity kind and reason.",
		},
		[]string{"kind", "reason"},
	)
)
