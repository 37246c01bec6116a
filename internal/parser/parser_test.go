package parser

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestExtractFields(t *testing.T) {
	text := "Some intro\nLocation: 5 Main St\nStart: 2026-02-20 10:00 AM\nAttendees: a@x.com, b@x.com\nJoin us!"
	fields := ExtractFields(text)

	want := map[string]string{
		"location":  "5 Main St",
		"start":     "2026-02-20 10:00 AM",
		"attendees": "a@x.com, b@x.com",
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("ExtractFields = %v, want %v", fields, want)
	}
}

func TestExtractFieldsCaseInsensitive(t *testing.T) {
	fields := ExtractFields("LOCATION: HQ\nstart: 2026-01-01 09:00")
	if fields["location"] != "HQ" {
		t.Errorf("expected location 'HQ', got %q", fields["location"])
	}
	if fields["start"] != "2026-01-01 09:00" {
		t.Errorf("expected start '2026-01-01 09:00', got %q", fields["start"])
	}
}

func TestExtractFieldsLabelMustStartLine(t *testing.T) {
	fields := ExtractFields("The Location: HQ is wrong\nMeet at Start: never")
	if len(fields) != 0 {
		t.Errorf("expected no fields, got %v", fields)
	}
}

func TestExtractFieldsFirstMatchWins(t *testing.T) {
	fields := ExtractFields("Location: first\nLocation: second")
	if fields["location"] != "first" {
		t.Errorf("expected first match to win, got %q", fields["location"])
	}
}

func TestParseDescriptionEmpty(t *testing.T) {
	details := ParseDescription("", time.UTC)
	if details.Description != "" || details.Start != nil || details.End != nil {
		t.Errorf("expected zero details for empty description, got %+v", details)
	}
}

func TestParseDescriptionFull(t *testing.T) {
	text := "Location: 5 Main St\nStart: 2026-02-20 10:00 AM\nAttendees: a@x.com, b@x.com\nJoin us!"
	details := ParseDescription(text, time.UTC)

	if details.Location != "5 Main St" {
		t.Errorf("location = %q", details.Location)
	}
	if details.Start == nil || !details.Start.Equal(time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", details.Start)
	}
	if details.End == nil || !details.End.Equal(time.Date(2026, 2, 20, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want start + 1h", details.End)
	}
	if !reflect.DeepEqual(details.Attendees, []string{"a@x.com", "b@x.com"}) {
		t.Errorf("attendees = %v", details.Attendees)
	}
	if details.Description != "Join us!" {
		t.Errorf("description = %q", details.Description)
	}
}

func TestParseDescriptionDefaultDuration(t *testing.T) {
	details := ParseDescription("Start: 2026-03-01 14:00", time.UTC)
	if details.Start == nil || details.End == nil {
		t.Fatalf("expected start and end, got %+v", details)
	}
	if got := details.End.Sub(*details.Start); got != time.Hour {
		t.Errorf("end - start = %v, want 1h", got)
	}
}

func TestParseDescriptionExplicitEnd(t *testing.T) {
	details := ParseDescription("Start: 2026-03-01 14:00\nEnd: 2026-03-01 16:30", time.UTC)
	if details.End == nil || !details.End.Equal(time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC)) {
		t.Errorf("end = %v", details.End)
	}
}

func TestParseDescriptionUnparseableStart(t *testing.T) {
	details := ParseDescription("Start: whenever works\nPlanning meeting", time.UTC)
	if details.Start != nil {
		t.Errorf("expected unparseable start to be dropped, got %v", details.Start)
	}
	if details.End != nil {
		t.Errorf("expected no end without a start, got %v", details.End)
	}
	// The labeled line is still stripped from the description.
	if details.Description != "Planning meeting" {
		t.Errorf("description = %q", details.Description)
	}
}

func TestParseDescriptionUnparseableEnd(t *testing.T) {
	details := ParseDescription("Start: 2026-03-01 14:00\nEnd: until we drop", time.UTC)
	if details.Start == nil {
		t.Fatal("expected start to parse")
	}
	if details.End == nil || !details.End.Equal(details.Start.Add(time.Hour)) {
		t.Errorf("expected dropped end to default to start + 1h, got %v", details.End)
	}
}

func TestParseDescriptionDateOnly(t *testing.T) {
	details := ParseDescription("Start: 2026-03-01", time.UTC)
	if details.Start == nil || !details.Start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", details.Start)
	}
}

func TestParseDescriptionTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	details := ParseDescription("Start: 2026-02-20 10:00 AM", chicago)
	if details.Start == nil {
		t.Fatal("expected start to parse")
	}
	if details.Start.Location() != chicago {
		t.Errorf("start location = %v, want America/Chicago", details.Start.Location())
	}
}

func TestSplitAttendeesSeparators(t *testing.T) {
	details := ParseDescription("Start: 2026-03-01\nAttendees: a@x.com; b@x.com  c@x.com,d@x.com", time.UTC)
	want := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}
	if !reflect.DeepEqual(details.Attendees, want) {
		t.Errorf("attendees = %v, want %v", details.Attendees, want)
	}
}

func TestSplitAttendeesDropsMalformed(t *testing.T) {
	details := ParseDescription("Attendees: alice, b@x.com, tbd", time.UTC)
	want := []string{"b@x.com"}
	if !reflect.DeepEqual(details.Attendees, want) {
		t.Errorf("attendees = %v, want %v", details.Attendees, want)
	}
}

func TestAttendeeParsingIdempotent(t *testing.T) {
	first := ParseDescription("Attendees: a@x.com, b@x.com", time.UTC).Attendees
	second := ParseDescription("Attendees: "+strings.Join(first, ", "), time.UTC).Attendees
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parsing attendees changed the result: %v vs %v", first, second)
	}
}

func TestResidualDescriptionStripsAllLabeledLines(t *testing.T) {
	text := "Quarterly sync.\nLocation: HQ\nStart: 2026-03-01 09:00\nEnd: 2026-03-01 10:00\nAttendees: a@x.com\nBring slides."
	details := ParseDescription(text, time.UTC)
	if !strings.HasPrefix(details.Description, "Quarterly sync.") ||
		!strings.HasSuffix(details.Description, "Bring slides.") {
		t.Errorf("description = %q", details.Description)
	}
	for _, label := range []string{"Location:", "Start:", "End:", "Attendees:"} {
		if strings.Contains(details.Description, label) {
			t.Errorf("description still contains %q: %q", label, details.Description)
		}
	}
}
