package opportunity

import (
	"errors"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	items := []any{
		map[string]any{
			"id":                 "pm-1",
			"title":              "Data Analytics Intern",
			"ministry":           "Ministry of Electronics and IT",
			"department":         "NIC",
			"skills":             []any{"Python", " ", "SQL"},
			"location":           "New Delhi",
			"mode":               "Hybrid",
			"level":              "Central",
			"deadline":           "2025-01-31",
			"applicationProcess": []any{"Register", "Upload CV"},
			"applicationLink":    "https://example.gov/apply",
		},
		map[string]any{
			"id":    42,
			"title": "Field Survey Intern",
		},
	}

	got, err := Decode(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(got))
	}

	first := got[0]
	if first.Organization != "Ministry of Electronics and IT" {
		t.Fatalf("unexpected organization: %q", first.Organization)
	}
	if len(first.Skills) != 2 || first.Skills[0] != "Python" || first.Skills[1] != "SQL" {
		t.Fatalf("expected blank skill to be dropped, got %v", first.Skills)
	}
	if first.Mode != ModeHybrid || first.Level != LevelCentral {
		t.Fatalf("unexpected mode/level: %q/%q", first.Mode, first.Level)
	}
	if len(first.ApplicationProcess) != 2 {
		t.Fatalf("expected application steps, got %v", first.ApplicationProcess)
	}
	if got[1].ID != "42" {
		t.Fatalf("expected numeric id to be decoded as string, got %q", got[1].ID)
	}
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	items := []any{
		map[string]any{"id": "1", "title": "Policy Intern"},
		map[string]any{"id": "2", "title": "GIS Intern"},
		map[string]any{"id": 1, "title": "Policy Intern again"},
	}

	got, err := Decode(items)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no opportunities on error, got %d", len(got))
	}
}

func TestDecodeRequiresID(t *testing.T) {
	if _, err := Decode([]any{map[string]any{"title": "no id"}}); err == nil {
		t.Fatalf("expected error for opportunity without id")
	}
}

func TestParseModeAndLevel(t *testing.T) {
	if m, err := ParseMode(" remote "); err != nil || m != ModeRemote {
		t.Fatalf("expected Remote, got %q (%v)", m, err)
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if l, err := ParseLevel("STATE"); err != nil || l != LevelState {
		t.Fatalf("expected State, got %q (%v)", l, err)
	}
}

func TestOpen(t *testing.T) {
	o := &Opportunity{Deadline: "2025-01-31"}

	if !o.Open(time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected opportunity to be open on deadline day")
	}
	if o.Open(time.Date(2025, 2, 1, 0, 0, 1, 0, time.UTC)) {
		t.Fatalf("expected opportunity to be closed after deadline day")
	}
	if !(&Opportunity{Deadline: "soon"}).Open(time.Now()) {
		t.Fatalf("unparsable deadline should count as open")
	}
}

func TestOpportunitiesHelpers(t *testing.T) {
	list := New([]*Opportunity{
		{ID: "1", Organization: "Ministry of Health"},
		{ID: "2", Organization: "Ministry of Power"},
		{ID: "3", Organization: "Ministry of Health"},
		{ID: "4", Organization: "Ministry of Health"},
		{ID: "5", Organization: "Ministry of Health"},
	})

	orgs := list.Organizations()
	if len(orgs) != 2 || orgs[0] != "Ministry of Health" || orgs[1] != "Ministry of Power" {
		t.Fatalf("unexpected organizations: %v", orgs)
	}

	similar := list.Similar(list.FindByID("3"), 2)
	if len(similar) != 2 || similar[0].ID != "1" || similar[1].ID != "4" {
		t.Fatalf("unexpected similar opportunities: %+v", similar)
	}

	clone := list.Clone()
	dropped := clone.Keep(func(o *Opportunity) bool { return o.Organization == "Ministry of Power" })
	if len(dropped) != 4 || dropped[0] != "1" || dropped[3] != "5" {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}
	if clone.Len() != 1 || list.Len() != 5 {
		t.Fatalf("clone must not affect the original: clone=%d original=%d", clone.Len(), list.Len())
	}
}
