// Package profile turns loosely shaped candidate input (form values or
// AI-extracted fields) into the canonical CandidateProfile used for scoring.
package profile

import "strings"

// Keys of the raw profile object, in the order they are requested from the
// structured-field extractor.
const (
	KeyName       = "name"
	KeyEducation  = "education"
	KeyDegree     = "degree"
	KeySkills     = "skills"
	KeyInterests  = "interests"
	KeyLocation   = "location"
	KeyExperience = "experience"
)

var Keys = []string{KeyName, KeyEducation, KeyDegree, KeySkills, KeyInterests, KeyLocation, KeyExperience}

// Raw is a candidate profile before normalization.
type Raw struct {
	Name       Field
	Education  Field
	Degree     Field
	Skills     Field
	Interests  Field
	Location   Field
	Experience Field
}

// CandidateProfile is the normalized profile. Every field is always defined.
type CandidateProfile struct {
	Name       string   `json:"name"`
	Education  string   `json:"education"`
	Degree     string   `json:"degree"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
}

// RawFromMap reads the seven profile keys out of a decoded JSON object.
// Unknown keys are ignored.
func RawFromMap(m map[string]any) Raw {
	return Raw{
		Name:       FieldFromAny(m[KeyName]),
		Education:  FieldFromAny(m[KeyEducation]),
		Degree:     FieldFromAny(m[KeyDegree]),
		Skills:     FieldFromAny(m[KeySkills]),
		Interests:  FieldFromAny(m[KeyInterests]),
		Location:   FieldFromAny(m[KeyLocation]),
		Experience: FieldFromAny(m[KeyExperience]),
	}
}

// Normalize collapses every field to its canonical form. It is pure and
// idempotent.
func Normalize(raw Raw) CandidateProfile {
	return CandidateProfile{
		Name:       scalar(raw.Name),
		Education:  scalar(raw.Education),
		Degree:     scalar(raw.Degree),
		Skills:     SplitList(raw.Skills.String()),
		Interests:  SplitList(raw.Interests.String()),
		Location:   scalar(raw.Location),
		Experience: scalar(raw.Experience),
	}
}

// Raw converts the profile back to its raw shape, lists as lists.
func (p CandidateProfile) Raw() Raw {
	return Raw{
		Name:       Scalar(p.Name),
		Education:  Scalar(p.Education),
		Degree:     Scalar(p.Degree),
		Skills:     List(p.Skills...),
		Interests:  List(p.Interests...),
		Location:   Scalar(p.Location),
		Experience: Scalar(p.Experience),
	}
}

// SplitList splits a comma-delimited string into trimmed, lowercased, non-empty
// tokens. The result is never nil.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

func scalar(f Field) string {
	return strings.TrimSpace(f.String())
}
