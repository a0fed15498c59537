// Package normalizer turns raw model output into a well-formed candidate.Record.
//
// The pipeline is raw -> Span -> Fields -> Record. Every step is total:
// malformed input degrades to the empty record and never to an error.
package normalizer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/cvdex/internal/domain/candidate"
)

// Record keys.
const (
	KeyProfession      = "profession"
	KeyYears           = "years"
	KeySummary         = "summary"
	KeyStrongestSkills = "strongest_skills"
	KeyChallenges      = "challenges"
)

// listSeparator splits list fields that the model sent as one string.
const listSeparator = ", "

// Span is the candidate JSON object cut out of raw model text.
type Span struct {
	Text  string
	Valid bool
}

// Fields is a decoded top-level JSON object.
type Fields map[string]json.RawMessage

// Outcome is the result of Normalize. Parsed is false when the output
// carried no usable object; the record is then empty.
type Outcome struct {
	Record candidate.Record
	Parsed bool
}

// ExtractSpan returns the text from the first '{' to the last '}' inclusive.
func ExtractSpan(raw string) Span {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < 0 || end < start {
		return Span{}
	}
	return Span{Text: raw[start : end+1], Valid: true}
}

// ParseFields decodes the span as a JSON object.
func ParseFields(s Span) (Fields, bool) {
	if !s.Valid {
		return nil, false
	}
	var f Fields
	if err := json.Unmarshal([]byte(s.Text), &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

// Coerce maps fields onto a record. Wrong-typed values fall back to zero
// values; an object without any known key yields the empty record.
func Coerce(f Fields) candidate.Record {
	known := false
	for _, k := range []string{KeyProfession, KeyYears, KeySummary, KeyStrongestSkills, KeyChallenges} {
		if _, ok := f[k]; ok {
			known = true
			break
		}
	}
	if !known {
		return candidate.Empty()
	}

	return candidate.New(
		coerceString(f[KeyProfession]),
		coerceYears(f[KeyYears]),
		coerceString(f[KeySummary]),
		coerceList(f[KeyStrongestSkills]),
		coerceList(f[KeyChallenges]),
	)
}

// Normalize runs the whole pipeline on raw model text.
func Normalize(raw string) Outcome {
	fields, ok := ParseFields(ExtractSpan(raw))
	if !ok {
		return Outcome{Record: candidate.Empty()}
	}
	rec := Coerce(fields)
	return Outcome{Record: rec, Parsed: !rec.IsEmpty()}
}

// NormalizeRecord passes a record through its JSON form. It is idempotent.
func NormalizeRecord(rec candidate.Record) candidate.Record {
	data, err := json.Marshal(rec)
	if err != nil {
		return candidate.Empty()
	}
	return Normalize(string(data)).Record
}

func coerceString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func coerceYears(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if dec.Decode(&v) != nil {
		return 0
	}
	switch t := v.(type) {
	case json.Number:
		return numberToYears(t.String())
	case string:
		return numberToYears(strings.TrimSpace(t))
	default:
		return 0
	}
}

func numberToYears(s string) int {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt(float64(n))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clampInt(math.Trunc(f))
}

func clampInt(f float64) int {
	switch {
	case f < 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

// coerceList accepts an array (strings kept, other values as JSON text)
// or a ", " separated string. Absent and null give an empty list.
func coerceList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return splitList(s)
	}

	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		switch {
		case bytes.Equal(bytes.TrimSpace(item), []byte("null")):
		case json.Unmarshal(item, &str) == nil:
			out = append(out, str)
		default:
			var buf bytes.Buffer
			if json.Compact(&buf, item) == nil {
				out = append(out, buf.String())
			}
		}
	}
	return out
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
