// Package naf reads dependency-parsed documents in the NLP Annotation
// Format: tokens, terms, dependencies and coreference chains.
package naf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/common"
)

type nafDocument struct {
	XMLName xml.Name   `xml:"NAF"`
	Lang    string     `xml:"lang,attr"`
	Header  nafHeader  `xml:"nafHeader"`
	Tokens  []nafToken `xml:"text>wf"`
	Terms   []nafTerm  `xml:"terms>term"`
	Deps    []nafDep   `xml:"deps>dep"`
	Corefs  []nafCoref `xml:"coreferences>coref"`
}

type nafHeader struct {
	Public struct {
		PublicID string `xml:"publicId,attr"`
	} `xml:"public"`
}

type nafToken struct {
	ID     string `xml:"id,attr"`
	Offset string `xml:"offset,attr"`
	Sent   string `xml:"sent,attr"`
	Text   string `xml:",chardata"`
}

type nafTerm struct {
	ID      string      `xml:"id,attr"`
	Lemma   string      `xml:"lemma,attr"`
	POS     string      `xml:"pos,attr"`
	Targets []nafTarget `xml:"span>target"`
}

type nafTarget struct {
	ID   string `xml:"id,attr"`
	Head string `xml:"head,attr"`
}

type nafDep struct {
	From  string `xml:"from,attr"`
	To    string `xml:"to,attr"`
	RFunc string `xml:"rfunc,attr"`
}

type nafCoref struct {
	ID    string    `xml:"id,attr"`
	Type  string    `xml:"type,attr"`
	Spans []nafSpan `xml:"span"`
}

type nafSpan struct {
	Targets []nafTarget `xml:"target"`
}

// Decoder implements the document reader for NAF.
type Decoder struct{}

// Decode parses a NAF document. The public id of the header is used when
// documentID is empty.
func (Decoder) Decode(data []byte, documentID string) (*common.Document, error) {
	var raw nafDocument
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse NAF: %w", err)
	}

	id := documentID
	if id == "" {
		id = raw.Header.Public.PublicID
	}

	doc := &common.Document{
		ID:       id,
		Language: raw.Lang,
	}

	tokens := make(map[string]nafToken, len(raw.Tokens))
	for _, tok := range raw.Tokens {
		tokens[tok.ID] = tok
	}

	for _, t := range raw.Terms {
		if t.ID == "" {
			return nil, fmt.Errorf("NAF term without id")
		}
		term := common.Term{
			ID:     t.ID,
			Lemma:  t.Lemma,
			POS:    common.ParsePOS(t.POS),
			Offset: -1,
		}
		var forms []string
		for _, target := range t.Targets {
			term.Span = append(term.Span, target.ID)
			tok, ok := tokens[target.ID]
			if !ok {
				continue
			}
			forms = append(forms, util.CollapseSpace(tok.Text))
			if term.Offset < 0 {
				term.Offset = atoi(tok.Offset)
				term.Sentence = atoi(tok.Sent)
			}
		}
		term.Form = strings.Join(forms, " ")
		if term.Offset < 0 {
			term.Offset = 0
		}
		doc.Terms = append(doc.Terms, term)
	}

	for _, d := range raw.Deps {
		doc.Dependencies = append(doc.Dependencies, common.Dependency{
			Head:      d.From,
			Dependent: d.To,
			Relation:  common.ParseRelation(d.RFunc),
		})
	}

	for _, c := range raw.Corefs {
		chain := common.CorefChain{ID: c.ID, Type: c.Type}
		for _, span := range c.Spans {
			chain.Members = append(chain.Members, spanHeads(span)...)
		}
		if len(chain.Members) > 0 {
			doc.Corefs = append(doc.Corefs, chain)
		}
	}

	return doc, nil
}

// spanHeads returns the targets marked as head. A span without any head
// marking that has a single target is its own head.
func spanHeads(span nafSpan) []string {
	var heads []string
	marked := false
	for _, t := range span.Targets {
		if t.Head == "" {
			continue
		}
		marked = true
		if t.Head == "yes" || t.Head == "true" {
			heads = append(heads, t.ID)
		}
	}
	if !marked && len(span.Targets) == 1 {
		heads = append(heads, span.Targets[0].ID)
	}
	return heads
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
