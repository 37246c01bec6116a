// Package ics writes local .ics copies of created calendar events, as an
// audit trail importable into any other calendar application.
package ics

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"linearcal/internal/models"
)

// Exporter serializes events to iCalendar files in a fixed directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter creates an Exporter writing into dir, creating it if needed.
func NewExporter(dir string, logger *slog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{dir: dir, logger: logger}, nil
}

// Export writes event as <eventID>.ics. eventID doubles as the iCal UID;
// when empty, a fresh UID is generated.
func (e *Exporter) Export(event *models.Event, eventID string) error {
	uid := eventID
	if uid == "" {
		uid = uuid.New().String()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//linearcal//EN")
	cal.Children = append(cal.Children, toICal(event, uid))

	path := filepath.Join(e.dir, fmt.Sprintf("%s.ics", uid))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ics file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}

	e.logger.Debug("Exported event to ics file", "path", path)
	return nil
}

// toICal converts an internal Event model to an ical.Component (VEvent).
func toICal(event *models.Event, uid string) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime)

	if event.Description != "" {
		ve.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	for _, attendee := range event.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(fmt.Sprintf("mailto:%s", attendee))
		ve.Props.Add(p)
	}
	return ve
}
