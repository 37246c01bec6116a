package models

import "time"

// Event represents a calendar event about to be created.
// This is an internal representation, independent of any specific calendar provider.
type Event struct {
	Title       string    // Summary or title of the event
	Description string    // Detailed description of the event
	StartTime   time.Time // Start time of the event
	EndTime     time.Time // End time of the event
	Location    string    // Location of the event
	Attendees   []string  // List of attendee emails to invite
	SourceID    string    // Identifier of the issue that produced the event (e.g. "ENG-123")
}
