// Package metrics defines and registers the custom Prometheus metrics for the
// learning API. HTTP request metrics come from echoprometheus; everything here
// tracks the authentication core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learning"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts self-service registrations.
// Label:
//   - result: "success", "conflict", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens the access guard refused.
// Label:
//   - reason: "missing", "expired", "signature", "kind", "malformed", "unknown_subject", "invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// GuardDenialsTotal counts authenticated requests refused by a guard.
// Label:
//   - reason: "inactive" or "role"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "guard_denials_total",
		Help:      "Total number of authenticated requests denied by access guards.",
	},
	[]string{"reason"},
)

// ── Password reset ───────────────────────────────────────────────────────────

// PasswordResetsTotal counts reset flow outcomes.
// Labels:
//   - stage: "request" or "confirm"
//   - result: "issued", "unknown_email", "throttled", "invalid_token", "completed", "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "password_resets_total",
		Help:      "Total number of password reset operations, by stage and result.",
	},
	[]string{"stage", "result"},
)

// ResetQueueDepth tracks the backlog of each reset notice dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var ResetQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "reset_queue_depth",
		Help:      "Current number of reset notices pending in each dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ── Rate limiting ────────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - route: the matched route path
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429, by route.",
	},
	[]string{"route"},
)
