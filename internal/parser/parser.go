// Package parser extracts structured event details from free-text issue
// descriptions. Recognized lines (anywhere in the text, case-insensitive):
//
//	Location: 123 Main St, Austin TX
//	Start: 2026-02-20 10:00 AM
//	End: 2026-02-20 11:00 AM
//	Attendees: alice@example.com, bob@example.com
//
// Everything else is kept as the event description.
package parser

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var fieldPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"location", regexp.MustCompile(`(?im)^location:[ \t]*(.+)$`)},
	{"start", regexp.MustCompile(`(?im)^start:[ \t]*(.+)$`)},
	{"end", regexp.MustCompile(`(?im)^end:[ \t]*(.+)$`)},
	{"attendees", regexp.MustCompile(`(?im)^attendees:[ \t]*(.+)$`)},
}

var attendeeSeparators = regexp.MustCompile(`[,;\s]+`)

// Date layouts tried in order. Times without a zone are interpreted in
// the location handed to ParseDescription.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 3:04 PM",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"2006-01-02",
}

// EventDetails holds the normalized scheduling fields pulled out of a
// description. Start and End are nil when absent or unparseable; End is
// always set when Start is.
type EventDetails struct {
	Location    string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
	Description string
}

// ExtractFields scans text for labeled lines and returns the raw matched
// value per field name. Only the first match per field applies. Fields
// without a matching line are absent from the map.
func ExtractFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, fp := range fieldPatterns {
		if m := fp.re.FindStringSubmatch(text); m != nil {
			fields[fp.name] = strings.TrimSpace(m[1])
		}
	}
	return fields
}

// ParseDescription extracts and normalizes event details from an issue
// description. Unparseable dates are dropped with a warning, never an
// error; a missing end defaults to one hour after start. loc determines
// how zone-less timestamps are interpreted; nil means time.Local.
func ParseDescription(description string, loc *time.Location) EventDetails {
	if description == "" {
		return EventDetails{}
	}
	if loc == nil {
		loc = time.Local
	}

	fields := ExtractFields(description)
	details := EventDetails{Location: fields["location"]}

	if raw, ok := fields["attendees"]; ok {
		details.Attendees = splitAttendees(raw)
	}

	if raw, ok := fields["start"]; ok {
		if t, err := parseDate(raw, loc); err == nil {
			details.Start = &t
		} else {
			slog.Warn("could not parse start date", "value", raw)
		}
	}
	if raw, ok := fields["end"]; ok {
		if t, err := parseDate(raw, loc); err == nil {
			details.End = &t
		} else {
			slog.Warn("could not parse end date", "value", raw)
		}
	}

	// Default duration: one hour.
	if details.Start != nil && details.End == nil {
		end := details.Start.Add(time.Hour)
		details.End = &end
	}

	// Strip every matched labeled line to leave the residual description,
	// whether or not the value survived normalization.
	clean := description
	for _, fp := range fieldPatterns {
		if idx := fp.re.FindStringIndex(clean); idx != nil {
			clean = clean[:idx[0]] + clean[idx[1]:]
		}
	}
	details.Description = strings.TrimSpace(clean)

	return details
}

// splitAttendees splits a raw attendee list on commas, semicolons and
// whitespace, keeping only tokens that look like emails. Malformed
// tokens are dropped silently.
func splitAttendees(raw string) []string {
	var attendees []string
	for _, token := range attendeeSeparators.Split(raw, -1) {
		token = strings.TrimSpace(token)
		if strings.Contains(token, "@") {
			attendees = append(attendees, token)
		}
	}
	return attendees
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
