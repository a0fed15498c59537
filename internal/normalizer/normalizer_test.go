package normalizer

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/kailas-cloud/cvdex/internal/domain/candidate"
)

func TestExtractSpan(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around", `Here you go: {"a":1} Hope it helps!`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"no braces", "I cannot analyse this document.", "", false},
		{"only open", `{"a":1`, "", false},
		{"inverted", `} oops {`, "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSpan(tt.raw)
			if got.Valid != tt.valid || got.Text != tt.want {
				t.Errorf("ExtractSpan(%q) = %+v, want {%q %v}", tt.raw, got, tt.want, tt.valid)
			}
		})
	}
}

func TestParseFields(t *testing.T) {
	if _, ok := ParseFields(Span{}); ok {
		t.Error("invalid span must not parse")
	}
	if _, ok := ParseFields(Span{Text: `{"a":}`, Valid: true}); ok {
		t.Error("malformed JSON must not parse")
	}
	if _, ok := ParseFields(Span{Text: `{not json at all}`, Valid: true}); ok {
		t.Error("malformed JSON must not parse")
	}
	f, ok := ParseFields(Span{Text: `{"profession":"Engineer"}`, Valid: true})
	if !ok || string(f["profession"]) != `"Engineer"` {
		t.Errorf("unexpected fields %v, %v", f, ok)
	}
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := "Sure! ```json\n" + `{
		"profession": "Backend Engineer",
		"years": 7,
		"summary": "Builds payment systems.",
		"strongest_skills": ["C++", "Go"],
		"challenges": "Migrated monolith, Cut latency by 40%"
	}` + "\n```"

	out := Normalize(raw)
	if !out.Parsed {
		t.Fatal("expected parsed")
	}
	r := out.Record
	if r.Profession() != "Backend Engineer" || r.Years() != 7 || r.Summary() != "Builds payment systems." {
		t.Errorf("unexpected record %+v", r)
	}
	if !slices.Equal(r.StrongestSkills(), []string{"C++", "Go"}) {
		t.Errorf("skills = %q", r.StrongestSkills())
	}
	if !slices.Equal(r.Challenges(), []string{"Migrated monolith", "Cut latency by 40%"}) {
		t.Errorf("challenges = %q", r.Challenges())
	}
}

func TestNormalize_Unparsable(t *testing.T) {
	for _, raw := range []string{
		"no json here",
		"} inverted {",
		`{"profession": "Engineer",}`,
		`{}`,
		`{"name":"x","age":3}`,
	} {
		out := Normalize(raw)
		if out.Parsed || !out.Record.IsEmpty() {
			t.Errorf("Normalize(%q) = %+v, want empty", raw, out)
		}
	}
}

func TestCoerceList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma separated", `"Go, Rust, Testing"`, []string{"Go", "Rust", "Testing"}},
		{"array unchanged", `["Go","Rust"]`, []string{"Go", "Rust"}},
		{"empty string", `""`, []string{}},
		{"blank parts dropped", `"Go, , Redis "`, []string{"Go", "Redis"}},
		{"null", `null`, []string{}},
		{"absent", ``, []string{}},
		{"mixed array", `["Go", 3, null, {"k":"v"}]`, []string{"Go", "3", `{"k":"v"}`}},
		{"number", `42`, []string{}},
		{"object", `{"a":"b"}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceList(json.RawMessage(tt.raw))
			if got == nil {
				t.Fatal("list must never be nil")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("coerceList(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceYears(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`5`, 5},
		{`5.9`, 5},
		{`"12"`, 12},
		{`" 3.5 "`, 3},
		{`-4`, 0},
		{`"ten"`, 0},
		{`true`, 0},
		{`null`, 0},
		{`[1]`, 0},
		{`1e12`, 2147483647},
		{``, 0},
	}
	for _, tt := range tests {
		if got := coerceYears(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("coerceYears(%s) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCoerce_WrongTypes(t *testing.T) {
	f, ok := ParseFields(ExtractSpan(`{"profession": 12, "summary": ["a"], "years": "x"}`))
	if !ok {
		t.Fatal("expected fields")
	}
	r := Coerce(f)
	if r.IsEmpty() {
		t.Fatal("object with known keys must not be empty")
	}
	if r.Profession() != "" || r.Summary() != "" || r.Years() != 0 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.StrongestSkills() == nil || r.Challenges() == nil {
		t.Error("lists must be non-nil")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`{"profession":"Data Scientist","years":3.7,"summary":"ML.","strongest_skills":"Python, SQL","challenges":[]}`,
		`{"profession":"QA","strongest_skills":["Selenium", null, 1]}`,
		`garbage`,
		`{}`,
		"```json\n{\"years\":\"4\"}\n```",
	}
	for _, in := range inputs {
		first := Normalize(in)
		data, err := json.Marshal(first.Record)
		if err != nil {
			t.Fatal(err)
		}
		second := Normalize(string(data))
		if !second.Record.Equal(first.Record) || second.Parsed != first.Parsed {
			t.Errorf("not idempotent for %q:\nfirst  %+v\nsecond %+v", in, first, second)
		}
		if !NormalizeRecord(first.Record).Equal(first.Record) {
			t.Errorf("NormalizeRecord changed %q", in)
		}
	}
}

func TestNormalizeRecord_Empty(t *testing.T) {
	if !NormalizeRecord(candidate.Empty()).IsEmpty() {
		t.Error("empty record must stay empty")
	}
}
