// Package cat reads manually annotated microportraits from CAT
// (Content Annotation Tool) XML exports and flattens them into gold rows
// that can be compared against extracted portraits.
package cat

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/logger"
)

const (
	KindLabel    = "label"
	KindProperty = "property"
)

// GoldRow is one annotated fact about a referent.
type GoldRow struct {
	Referent    string
	Kind        string
	Description string
}

func (r GoldRow) Record() []string {
	return []string{r.Referent, r.Kind, r.Description}
}

type catDocument struct {
	XMLName   xml.Name   `xml:"Document"`
	Name      string     `xml:"doc_name,attr"`
	Tokens    []catToken `xml:"token"`
	Markables struct {
		Activities []catMarkable `xml:"ACTIVITY"`
		Labels     []catMarkable `xml:"LABEL"`
		Properties []catMarkable `xml:"PROPERTY"`
	} `xml:"Markables"`
	Relations struct {
		RefersTo  []catRelation `xml:"REFERS_TO"`
		AppliesTo []catRelation `xml:"APPLIES_TO"`
		HasRole   []catRelation `xml:"HAS_ROLE"`
	} `xml:"Relations"`
}

type catToken struct {
	ID   string `xml:"t_id,attr"`
	Text string `xml:",chardata"`
}

type catMarkable struct {
	ID      string `xml:"m_id,attr"`
	Anchors []struct {
		TokenID string `xml:"t_id,attr"`
	} `xml:"token_anchor"`
}

type catRelation struct {
	ID      string      `xml:"r_id,attr"`
	Role    string      `xml:"Specific_role,attr"`
	Sources []catMember `xml:"source"`
	Targets []catMember `xml:"target"`
}

type catMember struct {
	MarkableID string `xml:"m_id,attr"`
}

// Read parses a CAT export and returns its gold rows grouped by referent.
// Referents are REFERS_TO relations; two relations that share a markable
// denote the same referent and are merged under the id that appears first.
func Read(r io.Reader) ([]GoldRow, error) {
	var doc catDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse CAT document: %w", err)
	}

	tokens := make(map[string]string, len(doc.Tokens))
	for _, t := range doc.Tokens {
		tokens[t.ID] = strings.TrimSpace(t.Text)
	}
	describe := func(spans map[string][]string, markableID string) (string, bool) {
		ids, ok := spans[markableID]
		if !ok || len(ids) == 0 {
			return "", false
		}
		words := make([]string, 0, len(ids))
		for _, id := range ids {
			words = append(words, tokens[id])
		}
		return strings.Join(words, " "), true
	}

	labels := spans(doc.Markables.Labels)
	properties := spans(doc.Markables.Properties)
	activities := spans(doc.Markables.Activities)

	refersTo, referentOrder := referents(doc.Relations.RefersTo)
	rows := make(map[string][]GoldRow)
	add := func(referent, kind, description string) {
		rows[referent] = append(rows[referent], GoldRow{Referent: referent, Kind: kind, Description: description})
	}

	seen := make(map[string]bool)
	for _, rel := range doc.Relations.RefersTo {
		for _, m := range members(rel) {
			if seen[m] {
				continue
			}
			seen[m] = true
			if d, ok := describe(labels, m); ok {
				add(refersTo[m], KindLabel, d)
			}
		}
	}

	for _, rel := range doc.Relations.AppliesTo {
		for _, src := range rel.Sources {
			for _, tgt := range rel.Targets {
				property, referent, ok := resolvePair(refersTo, src.MarkableID, tgt.MarkableID)
				if !ok {
					logger.Warn("[CAT] Unresolved APPLIES_TO", "document", doc.Name, "relation", rel.ID)
					continue
				}
				if d, ok := describe(properties, property); ok {
					add(referent, KindProperty, d)
				}
			}
		}
	}

	for _, rel := range doc.Relations.HasRole {
		var sources []string
		for _, src := range rel.Sources {
			referent, ok := refersTo[src.MarkableID]
			if !ok {
				logger.Warn("[CAT] Unresolved HAS_ROLE source", "document", doc.Name, "relation", rel.ID, "markable", src.MarkableID)
				continue
			}
			sources = append(sources, referent)
		}
		for _, tgt := range rel.Targets {
			d, ok := describe(activities, tgt.MarkableID)
			if !ok {
				continue
			}
			for _, referent := range sources {
				add(referent, rel.Role, d)
			}
		}
	}

	var out []GoldRow
	for _, referent := range referentOrder {
		out = append(out, rows[referent]...)
	}
	return out, nil
}

// WriteCSV writes gold rows as semicolon separated values without header.
func WriteCSV(w io.Writer, rows []GoldRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func spans(markables []catMarkable) map[string][]string {
	out := make(map[string][]string, len(markables))
	for _, m := range markables {
		ids := make([]string, 0, len(m.Anchors))
		for _, a := range m.Anchors {
			ids = append(ids, a.TokenID)
		}
		out[m.ID] = ids
	}
	return out
}

func members(rel catRelation) []string {
	var ids []string
	for _, s := range rel.Sources {
		ids = append(ids, s.MarkableID)
	}
	for _, t := range rel.Targets {
		ids = append(ids, t.MarkableID)
	}
	return ids
}

// referents maps every markable to its referent id. REFERS_TO relations
// that share a markable are joined.
func referents(relations []catRelation) (map[string]string, []string) {
	sets := util.NewDisjointSet[string]()
	owner := make(map[string]string)
	for _, rel := range relations {
		sets.Add(rel.ID)
		for _, m := range members(rel) {
			if prev, ok := owner[m]; ok {
				sets.Union(prev, rel.ID)
				continue
			}
			owner[m] = rel.ID
		}
	}

	representative := make(map[string]string)
	var order []string
	for _, rel := range relations {
		root := sets.Find(rel.ID)
		if _, ok := representative[root]; !ok {
			representative[root] = rel.ID
			order = append(order, rel.ID)
		}
	}

	refersTo := make(map[string]string, len(owner))
	for m, rel := range owner {
		refersTo[m] = representative[sets.Find(rel)]
	}
	return refersTo, order
}

// resolvePair returns the property markable and referent of an APPLIES_TO
// pair. The referent is normally reached through the target; annotators
// sometimes drew the relation the other way round.
func resolvePair(refersTo map[string]string, source, target string) (string, string, bool) {
	if referent, ok := refersTo[target]; ok {
		return source, referent, true
	}
	if referent, ok := refersTo[source]; ok {
		return target, referent, true
	}
	return "", "", false
}
