// Package metrics provides Prometheus metrics for client-gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tenant-binding outcomes.
const (
	OutcomeSkipped          = "skipped"
	OutcomeNoCookie         = "no_cookie"
	OutcomeConsistent       = "consistent"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeInconsistent     = "inconsistent"
	OutcomeStoreError       = "store_error"
)

var (
	// TenantBindingTotal counts validator decisions by outcome.
	TenantBindingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "tenant_binding_total",
			Help:      "Total number of tenant-binding validations by outcome",
		},
		[]string{"outcome"},
	)

	// LoginTotal counts login attempts by result.
	LoginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "login_total",
			Help:      "Total number of login attempts",
		},
		[]string{"result"},
	)

	// TokenRevocationsTotal counts logouts that revoked a bearer token.
	TokenRevocationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "token_revocations_total",
			Help:      "Total number of revoked bearer tokens",
		},
	)
)

// RecordTenantBinding records one validator decision.
func RecordTenantBinding(outcome string) {
	TenantBindingTotal.WithLabelValues(outcome).Inc()
}

// RecordLogin records a login attempt; result is "success", "invalid_credentials" or "error".
func RecordLogin(result string) {
	LoginTotal.WithLabelValues(result).Inc()
}

// RecordRevocation records a revoked bearer token.
func RecordRevocation() {
	TokenRevocationsTotal.Inc()
}
