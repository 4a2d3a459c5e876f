package opportunity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

type WorkMode string

const (
	ModeRemote WorkMode = "Remote"
	ModeOnsite WorkMode = "Onsite"
	ModeHybrid WorkMode = "Hybrid"
)

type Level string

const (
	LevelCentral Level = "Central"
	LevelState   Level = "State"
)

const dateLayout = "2006-01-02"

// Opportunity is one internship posting as served by the catalog.
type Opportunity struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Organization       string   `json:"ministry"`
	Department         string   `json:"department"`
	Duration           string   `json:"duration"`
	Stipend            string   `json:"stipend"`
	Eligibility        string   `json:"eligibility"`
	Skills             []string `json:"skills"`
	Location           string   `json:"location"`
	Mode               WorkMode `json:"mode"`
	Level              Level    `json:"level"`
	Deadline           string   `json:"deadline"`
	Description        string   `json:"description"`
	Objectives         []string `json:"objectives"`
	Benefits           []string `json:"benefits"`
	ApplicationProcess []string `json:"applicationProcess"`
	ApplicationLink    string   `json:"applicationLink"`
	Posted             string   `json:"posted"`
}

// DeadlineTime parses the deadline as a calendar date or an RFC3339 timestamp.
func (o *Opportunity) DeadlineTime() (time.Time, error) {
	return parseDate(o.Deadline)
}

// PostedTime parses the posted date the same way as DeadlineTime.
func (o *Opportunity) PostedTime() (time.Time, error) {
	return parseDate(o.Posted)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// ParseMode matches a work mode case-insensitively.
func ParseMode(raw string) (WorkMode, error) {
	for _, m := range []WorkMode{ModeRemote, ModeOnsite, ModeHybrid} {
		if strings.EqualFold(strings.TrimSpace(raw), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown work mode %q", raw)
}

// ParseLevel matches a jurisdiction level case-insensitively.
func ParseLevel(raw string) (Level, error) {
	for _, l := range []Level{LevelCentral, LevelState} {
		if strings.EqualFold(strings.TrimSpace(raw), string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", raw)
}

// ErrDuplicateID reports an identifier that appears more than once in a catalog.
var ErrDuplicateID = errors.New("duplicate opportunity id")

// Decode converts raw catalog items (decoded JSON objects) into opportunities.
// Blank skill entries are dropped. Ids must be present and unique.
func Decode(items []any) ([]*Opportunity, error) {
	var opportunities []*Opportunity

	cfg := &mapstructure.DecoderConfig{
		Result:           &opportunities,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode opportunities: %w", err)
	}

	result := make([]*Opportunity, 0, len(opportunities))
	seen := make(map[string]int, len(opportunities))
	for idx, o := range opportunities {
		if o == nil {
			continue
		}
		if strings.TrimSpace(o.ID) == "" {
			return nil, fmt.Errorf("opportunity at index %d has no id", idx)
		}
		if first, ok := seen[o.ID]; ok {
			return nil, fmt.Errorf("%w %q at index %d (first at %d)", ErrDuplicateID, o.ID, idx, first)
		}
		seen[o.ID] = idx
		o.Skills = compact(o.Skills)
		result = append(result, o)
	}

	return result, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
