// Package jsondoc reads parsed documents serialised as JSON. The format
// mirrors common.Document; Schema describes it for producers.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cltl/micro-portraits/pkg/common"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// Decoder implements the document reader for JSON documents.
type Decoder struct{}

// Decode parses data into a Document. Slightly malformed JSON (trailing
// commas, missing brackets, single quotes) is repaired before giving up.
func (Decoder) Decode(data []byte, documentID string) (*common.Document, error) {
	var doc common.Document
	if err := unmarshalFlexible(data, &doc); err != nil {
		return nil, err
	}
	if doc.ID == "" {
		doc.ID = documentID
	}

	for i := range doc.Terms {
		t := &doc.Terms[i]
		if t.ID == "" {
			return nil, fmt.Errorf("term %d has no id", i)
		}
		t.POS = common.ParsePOS(string(t.POS))
		if t.Form == "" {
			t.Form = t.Lemma
		}
	}
	for i := range doc.Dependencies {
		d := &doc.Dependencies[i]
		d.Relation = common.ParseRelation(string(d.Relation))
	}
	return &doc, nil
}

func unmarshalFlexible(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("failed to parse JSON document: %w", err)
	}
	return nil
}

// Schema returns the JSON Schema of the document format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&common.Document{})
	s.Title = "Parsed document"
	s.Description = "Terms, dependency edges and coreference chains of one document."
	return s
}
