package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters. PaymentConflicts doubles as the out-of-band alert channel
// for ledger/gateway disagreement: ops alert on any increase.
var (
	PaymentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_conflicts_total",
		Help: "Gateway events carrying a terminal status that contradicts the stored one.",
	})

	MembershipsExpired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberships_expired_total",
		Help: "Memberships transitioned to expired, partitioned by trigger (sweep, lazy).",
	}, []string{"trigger"})

	CheckInsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_ins_total",
		Help: "Gym check-ins recorded.",
	})
)
