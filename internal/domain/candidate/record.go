// Package candidate holds the structured CV record produced by an analysis run.
package candidate

import (
	"encoding/json"
	"slices"
)

// Record is the structured summary of one CV (immutable value object).
// The zero value is the empty record.
type Record struct {
	populated  bool
	profession string
	years      int
	summary    string
	skills     []string
	challenges []string
}

// New creates a populated record. Negative years are clamped to zero and nil
// lists are materialized as empty lists.
func New(profession string, years int, summary string, skills, challenges []string) Record {
	return Record{
		populated:  true,
		profession: profession,
		years:      max(0, years),
		summary:    summary,
		skills:     cloneList(skills),
		challenges: cloneList(challenges),
	}
}

// Empty returns the placeholder record used for unparsable or failed analyses.
func Empty() Record { return Record{} }

// IsEmpty reports whether r is the placeholder record.
func (r Record) IsEmpty() bool { return !r.populated }

// Profession returns the detected profession.
func (r Record) Profession() string { return r.profession }

// Years returns the aggregate years of commercial experience.
func (r Record) Years() int { return r.years }

// Summary returns the short free-text summary.
func (r Record) Summary() string { return r.summary }

// StrongestSkills returns a copy of the skills list.
func (r Record) StrongestSkills() []string { return cloneList(r.skills) }

// Challenges returns a copy of the professional highlights list.
func (r Record) Challenges() []string { return cloneList(r.challenges) }

// Equal reports whether two records carry the same values.
func (r Record) Equal(o Record) bool {
	return r.populated == o.populated &&
		r.profession == o.profession &&
		r.years == o.years &&
		r.summary == o.summary &&
		slices.Equal(r.skills, o.skills) &&
		slices.Equal(r.challenges, o.challenges)
}

// wireRecord fixes the JSON key order of a populated record.
type wireRecord struct {
	Profession      string   `json:"profession"`
	Years           int      `json:"years"`
	Summary         string   `json:"summary"`
	StrongestSkills []string `json:"strongest_skills"`
	Challenges      []string `json:"challenges"`
}

// MarshalJSON encodes the empty record as {} and a populated one with all five keys.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.IsEmpty() {
		return []byte("{}"), nil
	}
	return json.Marshal(wireRecord{
		Profession:      r.profession,
		Years:           r.years,
		Summary:         r.summary,
		StrongestSkills: cloneList(r.skills),
		Challenges:      cloneList(r.challenges),
	})
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
