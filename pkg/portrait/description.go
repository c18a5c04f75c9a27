package portrait

import (
	"slices"
	"strings"

	"github.com/cltl/micro-portraits/pkg/common"
)

// Kind classifies a Description: the name of an entity (label), an
// attribute (property) or the semantic role the entity plays in an event.
type Kind string

const (
	KindLabel     Kind = "label"
	KindProperty  Kind = "property"
	KindAgent     Kind = "agent"
	KindUndergoer Kind = "undergoer"
	KindRecipient Kind = "recipient"
	KindHasRole   Kind = "has-role"
)

// PrepositionRole returns the role named after a preposition, e.g.
// "met-role".
func PrepositionRole(lemma string) Kind {
	return Kind(strings.ToLower(lemma) + "-role")
}

// IsRole reports whether k is an activity role.
func (k Kind) IsRole() bool {
	return k != KindLabel && k != KindProperty && k != ""
}

// Markers prefixed to secondary contributions in rendered phrases.
const (
	MarkerBy   = "BY"
	MarkerFrom = "FROM"
)

// Component is a single term of an expanded span.
type Component struct {
	ID   string     `json:"id"`
	Form string     `json:"form"`
	POS  common.POS `json:"pos"`
}

// Dependent is a secondary contribution to an activity, such as the object
// of the event an entity is the agent of.
type Dependent struct {
	Component
	Relation common.Relation `json:"relation"`
	Marker   string          `json:"marker,omitempty"`
	// Constituent holds the other terms of the dependent's span in surface
	// order; empty when the dependent governs nothing.
	Constituent []Component `json:"constituent,omitempty"`
	// Conjuncts is set when the dependent is a coordinator.
	Conjuncts []Component `json:"conjuncts,omitempty"`
	Phrase    string      `json:"phrase"`
}

// Description is the atomic unit of extracted information. ID is the
// anchor term; MentionID differs from it when the description was reached
// through a coordinator or a copula.
type Description struct {
	ID          string      `json:"id"`
	MentionID   string      `json:"mention_id"`
	Kind        Kind        `json:"kind"`
	Form        string      `json:"form"`
	POS         common.POS  `json:"pos"`
	Constituent []Component `json:"constituent,omitempty"`
	Phrase      string      `json:"phrase"`
	Dependents  []Dependent `json:"dependents,omitempty"`
}

// Text renders the base description: the form for labels and properties
// (the full span when there is one), "<role> <event>" for activities.
func (d Description) Text() string {
	if d.Kind.IsRole() {
		return string(d.Kind) + " " + d.Form
	}
	if d.Phrase != "" {
		return d.Phrase
	}
	return d.Form
}

// Phrases renders the base description followed by one refinement per
// secondary contribution. A coordinated dependent yields one refinement
// per conjunct plus one for the full coordinated span.
func (d Description) Phrases() []string {
	base := d.Text()
	out := []string{base}
	for _, dep := range d.Dependents {
		prefix := base + " "
		if dep.Marker != "" {
			prefix += dep.Marker + " "
		}
		if len(dep.Conjuncts) > 0 {
			for _, c := range dep.Conjuncts {
				out = append(out, prefix+c.Form)
			}
			out = append(out, prefix+dep.Phrase)
			continue
		}
		out = append(out, prefix+dep.Form)
		if len(dep.Constituent) > 0 && dep.Phrase != dep.Form {
			out = append(out, prefix+dep.Phrase)
		}
	}
	return out
}

// Microportrait collects the labels, properties and activities of one
// referring entity. Colabels are the ids of other terms whose information
// has been folded into this portrait.
type Microportrait struct {
	ID         string        `json:"id"`
	POS        common.POS    `json:"pos"`
	Labels     []Description `json:"labels"`
	Properties []Description `json:"properties"`
	Activities []Description `json:"activities"`
	Colabels   []string      `json:"colabels,omitempty"`
}

func newMicroportrait(id string, pos common.POS) *Microportrait {
	return &Microportrait{ID: id, POS: pos}
}

// AddColabel records id as folded into the portrait. The portrait's own id
// and ids already present are ignored.
func (m *Microportrait) AddColabel(id string) {
	if id == "" || id == m.ID || m.HasColabel(id) {
		return
	}
	m.Colabels = append(m.Colabels, id)
}

// HasColabel reports whether id has been folded into the portrait.
func (m *Microportrait) HasColabel(id string) bool {
	return slices.Contains(m.Colabels, id)
}

// Identifiers returns the portrait id followed by its colabels.
func (m *Microportrait) Identifiers() []string {
	return append([]string{m.ID}, m.Colabels...)
}

// absorb appends the content of other and records other's identifiers as
// colabels.
func (m *Microportrait) absorb(other *Microportrait) {
	m.Labels = append(m.Labels, other.Labels...)
	m.Properties = append(m.Properties, other.Properties...)
	m.Activities = append(m.Activities, other.Activities...)
	for _, id := range other.Identifiers() {
		m.AddColabel(id)
	}
}

// Facts returns every description of the portrait: labels, then
// properties, then activities.
func (m *Microportrait) Facts() []Description {
	out := make([]Description, 0, len(m.Labels)+len(m.Properties)+len(m.Activities))
	out = append(out, m.Labels...)
	out = append(out, m.Properties...)
	return append(out, m.Activities...)
}
