// Package envelope encodes and decodes the {"data":[...]} transport document.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/cvdex/internal/domain/batch"
	"github.com/kailas-cloud/cvdex/internal/domain/candidate"
	"github.com/kailas-cloud/cvdex/internal/normalizer"
)

const indent = "    "

// Status is the per-file processing outcome published next to the data array.
type Status struct {
	FileName string `json:"file_name"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// Document is the wire form. Statuses is omitted unless requested.
type Document struct {
	Data     []candidate.Record `json:"data"`
	Statuses []Status           `json:"statuses,omitempty"`
}

// Encode renders records as {"data":[...]} with a 4-space indent.
// Empty records are kept as {} placeholders so positions line up with files.
func Encode(records []candidate.Record) ([]byte, error) {
	return marshal(Document{Data: nonNil(records)})
}

// EncodeRun renders a run; withStatuses adds the per-file statuses array.
func EncodeRun(run *batch.Run, withStatuses bool) ([]byte, error) {
	doc := NewDocument(run, withStatuses)
	return marshal(doc)
}

// NewDocument projects a run onto the wire form.
func NewDocument(run *batch.Run, withStatuses bool) Document {
	doc := Document{Data: []candidate.Record{}}
	if run == nil {
		return doc
	}
	doc.Data = nonNil(run.Records())
	if withStatuses {
		doc.Statuses = Statuses(run)
	}
	return doc
}

// Statuses lists the per-file outcomes of a run in run order.
func Statuses(run *batch.Run) []Status {
	results := run.Results()
	out := make([]Status, len(results))
	for i, r := range results {
		out[i] = Status{FileName: r.FileName(), Status: string(r.Status()), Error: r.Reason()}
	}
	return out
}

// EncodeStrings renders elements as JSON-encoded strings of objects,
// the legacy form where each model span is stored verbatim.
func EncodeStrings(spans []string) ([]byte, error) {
	if spans == nil {
		spans = []string{}
	}
	return marshal(struct {
		Data []string `json:"data"`
	}{Data: spans})
}

// Decode parses an envelope. Elements may be objects or JSON strings holding
// objects; both go through the normalizer. Any other element becomes the empty record.
func Decode(data []byte) ([]candidate.Record, error) {
	var doc struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	records := make([]candidate.Record, len(doc.Data))
	for i, el := range doc.Data {
		records[i] = decodeElement(el)
	}
	return records, nil
}

func decodeElement(el json.RawMessage) candidate.Record {
	el = bytes.TrimSpace(el)
	if len(el) == 0 {
		return candidate.Empty()
	}
	switch el[0] {
	case '{':
		fields, ok := normalizer.ParseFields(normalizer.Span{Text: string(el), Valid: true})
		if !ok {
			return candidate.Empty()
		}
		return normalizer.Coerce(fields)
	case '"':
		var s string
		if json.Unmarshal(el, &s) != nil {
			return candidate.Empty()
		}
		return normalizer.Normalize(s).Record
	default:
		return candidate.Empty()
	}
}

func marshal(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out, nil
}

func nonNil(records []candidate.Record) []candidate.Record {
	if records == nil {
		return []candidate.Record{}
	}
	return records
}
