// Package webhook implements the HTTP surface of the bridge: the Linear
// webhook endpoint plus health and metrics routes.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linearcal/internal/linear"
	"linearcal/internal/metric"
	"linearcal/internal/models"
	"linearcal/internal/parser"
)

// EventCreator is the calendar collaborator consumed by the server. The
// production implementation is google.CalendarClient.
type EventCreator interface {
	CreateEvent(ctx context.Context, event *models.Event) (string, error)
}

// Exporter optionally writes a local copy of each created event.
type Exporter interface {
	Export(event *models.Event, eventID string) error
}

// Server is a lightweight HTTP handler for the webhook endpoints.
type Server struct {
	creator     EventCreator
	exporter    Exporter // may be nil
	secret      string
	targetLabel string
	location    *time.Location
	mux         *http.ServeMux
}

// NewServer creates a webhook Server. exporter may be nil to disable
// .ics export; loc determines how zone-less dates in descriptions are
// interpreted, nil meaning time.Local.
func NewServer(creator EventCreator, exporter Exporter, secret, targetLabel string, loc *time.Location) *Server {
	s := &Server{
		creator:     creator,
		exporter:    exporter,
		secret:      secret,
		targetLabel: targetLabel,
		location:    loc,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /webhook/linear", s.handleLinear)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLinear processes one webhook delivery end to end: signature
// check, handshake echo, type/action and label filtering, description
// parsing, then the calendar call. Every path terminates with exactly
// one JSON response.
func (s *Server) handleLinear(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metric.WebhookRequests.WithLabelValues(metric.OutcomeBadRequest).Inc()
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return
	}

	// The signature covers the raw body bytes, so it is checked before
	// any decoding. A missing header does not block processing; the
	// verifier itself skips when no secret is configured.
	if signature := r.Header.Get("linear-signature"); signature != "" {
		if !linear.VerifySignature(body, signature, s.secret) {
			slog.Warn("invalid webhook signature, rejecting request")
			metric.WebhookRequests.WithLabelValues(metric.OutcomeUnauthorized).Inc()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
			return
		}
	}

	var payload linear.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metric.WebhookRequests.WithLabelValues(metric.OutcomeBadRequest).Inc()
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	// Linear sends a URL verification request on webhook creation.
	if payload.Type == "url_verification" {
		slog.Info("responding to Linear URL verification")
		metric.WebhookRequests.WithLabelValues(metric.OutcomeChallenge).Inc()
		writeJSON(w, http.StatusOK, map[string]string{"challenge": payload.Challenge})
		return
	}

	// Only handle issue creation events.
	if !linear.IsIssueCreate(&payload) || payload.Data == nil {
		metric.WebhookRequests.WithLabelValues(metric.OutcomeIgnored).Inc()
		writeJSON(w, http.StatusOK, map[string]any{"ignored": true})
		return
	}

	issue := payload.Data
	slog.Info("received issue", "title", issue.Title, "identifier", issue.Identifier)

	if !issue.HasLabel(s.targetLabel) {
		slog.Debug("issue has no matching label, skipping", "label", s.targetLabel)
		metric.WebhookRequests.WithLabelValues(metric.OutcomeIgnored).Inc()
		writeJSON(w, http.StatusOK, map[string]any{"ignored": true, "reason": "no matching label"})
		return
	}

	details := parser.ParseDescription(issue.Description, s.location)
	if details.Start == nil {
		// Acknowledged with 200 on purpose: the missing date is a
		// data-quality problem in the issue, and an error status would
		// only make Linear retry the delivery.
		slog.Warn("issue has no start date, skipping", "title", issue.Title)
		metric.WebhookRequests.WithLabelValues(metric.OutcomeMissingStart).Inc()
		writeJSON(w, http.StatusOK, map[string]string{"error": "Missing start date in issue description"})
		return
	}

	event := &models.Event{
		Title:       issue.Title,
		Description: details.Description,
		Location:    details.Location,
		StartTime:   *details.Start,
		EndTime:     *details.End,
		Attendees:   details.Attendees,
		SourceID:    issue.Identifier,
	}

	eventID, err := s.creator.CreateEvent(r.Context(), event)
	if err != nil {
		slog.Error("failed to create calendar event", "title", issue.Title, "error", err)
		metric.WebhookRequests.WithLabelValues(metric.OutcomeFailed).Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create calendar event"})
		return
	}

	slog.Info("calendar event created", "title", issue.Title, "eventId", eventID)
	metric.WebhookRequests.WithLabelValues(metric.OutcomeCreated).Inc()
	metric.CalendarEventsCreated.Inc()

	if s.exporter != nil {
		if err := s.exporter.Export(event, eventID); err != nil {
			slog.Warn("failed to export ics copy", "eventId", eventID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "eventId": eventID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
