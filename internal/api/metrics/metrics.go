// Package metrics defines and registers all custom Prometheus metrics for
// the tours API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tours"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the auth pipeline.
// Label:
//   - reason: "no_credentials", "invalid_session", "account_gone", "stale_password"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected during authentication, by reason.",
	},
	[]string{"reason"},
)

// ResetTokensIssuedTotal counts password-reset tokens successfully issued
// and delivered.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued and emailed.",
	},
)

// ResetTokensRedeemedTotal counts redemption attempts.
// Label:
//   - result: "redeemed" or "rejected"
var ResetTokensRedeemedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_redeemed_total",
		Help:      "Total number of password reset redemption attempts, by result.",
	},
	[]string{"result"},
)

// RatingRecomputesTotal counts rating-summary recomputations triggered by
// review mutations.
// Label:
//   - result: "ok" or "error"
var RatingRecomputesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_recomputes_total",
		Help:      "Total number of tour rating summary recomputations, by result.",
	},
	[]string{"result"},
)

// EmailsSentTotal counts asynchronous emails processed by the dispatcher.
// Labels:
//   - kind: email template kind (e.g. "welcome")
//   - result: "sent" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of asynchronous emails processed, by kind and result.",
	},
	[]string{"kind", "result"},
)
