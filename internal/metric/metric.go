// Package metric exposes prometheus counters for webhook processing
// outcomes, served on GET /metrics by the webhook server.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for WebhookRequests.
const (
	OutcomeChallenge    = "challenge"
	OutcomeIgnored      = "ignored"
	OutcomeMissingStart = "missing_start"
	OutcomeCreated      = "created"
	OutcomeUnauthorized = "unauthorized"
	OutcomeFailed       = "failed"
	OutcomeBadRequest   = "bad_request"
)

// WebhookRequests counts processed webhook deliveries by terminal outcome.
var WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "linearcal_webhook_requests_total",
	Help: "Number of Linear webhook deliveries processed, by outcome",
}, []string{"outcome"})

// CalendarEventsCreated counts successfully created calendar events.
var CalendarEventsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "linearcal_calendar_events_created_total",
	Help: "Number of Google Calendar events created from issues",
})
