// Package metrics exposes Prometheus counters for the provisioning
// pipeline. The /metrics endpoint is mounted by the HTTP router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Invites counts invite operations by result (issued, added_existing,
	// failed).
	Invites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_invites_total",
		Help: "Invite operations by result.",
	}, []string{"result"})

	// Reconciles counts reconciliation outcomes (settled, provisioned,
	// unaffiliated, failed).
	Reconciles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_reconciles_total",
		Help: "Membership reconciliation outcomes.",
	}, []string{"outcome"})

	// SafeLinkClaims counts claim attempts by result (claimed, not_found,
	// already_used, expired).
	SafeLinkClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_safelink_claims_total",
		Help: "Safe-link claim attempts by result.",
	}, []string{"result"})

	// CrossoverRejections counts sessions rejected because the established
	// identity did not match the invitation's intended recipient.
	CrossoverRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_session_crossover_rejections_total",
		Help: "Sessions rejected by the crossover guard.",
	})
)
