package common

// Document represents one dependency-parsed text as delivered by the
// annotation reader. It is the unit of work for extraction: terms,
// dependencies and coreference chains are read-only once decoded.
//
// A document contains:
//   - Terms: the analysed words in document order
//   - Dependencies: labelled head/dependent edges between terms
//   - Corefs: chains of term ids judged to refer to the same entity
type Document struct {
	ID           string       `json:"id"`
	Language     string       `json:"language,omitempty"`
	Terms        []Term       `json:"terms"`
	Dependencies []Dependency `json:"dependencies"`
	Corefs       []CorefChain `json:"coreferences,omitempty"`
}

// Term represents a single analysed word (or multi-token unit) of a
// document. Terms are ordered by their position in the document; Offset is
// the character offset of the first token and is used for surface ordering.
type Term struct {
	ID       string   `json:"id"`
	Lemma    string   `json:"lemma"`
	Form     string   `json:"form"`
	POS      POS      `json:"pos"`
	Span     []string `json:"span,omitempty"`
	Offset   int      `json:"offset"`
	Sentence int      `json:"sentence,omitempty"`
}

// Dependency represents a labelled edge from a head term to a dependent
// term. A dependent may have more than one head.
type Dependency struct {
	Head      string   `json:"head"`
	Dependent string   `json:"dependent"`
	Relation  Relation `json:"relation"`
}

// CorefChain represents a set of term ids judged to be coreferent. Members
// are the head terms of the coreferring mentions.
type CorefChain struct {
	ID      string   `json:"id"`
	Type    string   `json:"type,omitempty"`
	Members []string `json:"members"`
}

// CorefTypeEntity is the only chain type used for merging portraits.
// Chains without a type are treated as entity chains.
const CorefTypeEntity = "entity"

// IsEntity reports whether the chain links entity mentions.
func (c CorefChain) IsEntity() bool {
	return c.Type == "" || c.Type == CorefTypeEntity
}

// Row is one reportable fact of a microportrait.
//
// DepRel is "head" for the anchor of a description, "constituent" for a
// word inside an expanded span, and the dependency relation for secondary
// contributions. ConstituentHead names the term whose span the row belongs
// to.
type Row struct {
	PortraitID      string `json:"mp_identifier"`
	MentionID       string `json:"mention_id"`
	Relation        string `json:"relation"`
	Description     string `json:"description"`
	POS             POS    `json:"pos"`
	TermID          string `json:"term_id"`
	DepRel          string `json:"dep_rel"`
	ConstituentHead string `json:"constituent_head"`
}

// RowHeader lists the column names of a serialized Row in column order.
var RowHeader = []string{
	"mp_identifier",
	"mention_id",
	"relation",
	"description",
	"pos",
	"term_id",
	"dep_rel",
	"constituent_head",
}

// Record returns the row as a column slice matching RowHeader.
func (r Row) Record() []string {
	return []string{
		r.PortraitID,
		r.MentionID,
		r.Relation,
		r.Description,
		string(r.POS),
		r.TermID,
		r.DepRel,
		r.ConstituentHead,
	}
}

// RowFromRecord is the inverse of Row.Record.
func RowFromRecord(rec []string) (Row, bool) {
	if len(rec) != len(RowHeader) {
		return Row{}, false
	}
	return Row{
		PortraitID:      rec[0],
		MentionID:       rec[1],
		Relation:        rec[2],
		Description:     rec[3],
		POS:             POS(rec[4]),
		TermID:          rec[5],
		DepRel:          rec[6],
		ConstituentHead: rec[7],
	}, true
}
