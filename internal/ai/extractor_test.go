package ai

import (
	"strings"
	"testing"

	"github.com/spigell/intern-match/internal/profile"
)

func TestInstructionNamesEveryProfileKey(t *testing.T) {
	for _, key := range profile.Keys {
		if !strings.Contains(Instruction, "- "+key) {
			t.Fatalf("instruction does not request %q", key)
		}
	}
}

func TestParseObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, got map[string]any)
	}{
		{
			name: "plain object",
			raw:  `{"name": "Asha", "skills": ["Python", "SQL"]}`,
			check: func(t *testing.T, got map[string]any) {
				if got["name"] != "Asha" {
					t.Fatalf("unexpected name: %v", got["name"])
				}
				if skills, ok := got["skills"].([]any); !ok || len(skills) != 2 {
					t.Fatalf("unexpected skills: %#v", got["skills"])
				}
			},
		},
		{
			name: "code fence",
			raw:  "```json\n{\"location\": null}\n```",
			check: func(t *testing.T, got map[string]any) {
				if v, ok := got["location"]; !ok || v != nil {
					t.Fatalf("expected null location, got %#v", v)
				}
			},
		},
		{name: "not json", raw: "I could not read the resume.", wantErr: true},
		{name: "array", raw: `["python"]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseObject(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}
