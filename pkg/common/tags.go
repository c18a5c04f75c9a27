package common

import "strings"

// POS is a part-of-speech tag from the parser's closed tagset.
type POS string

const (
	POSNoun  POS = "noun"
	POSName  POS = "name"
	POSPron  POS = "pron"
	POSVerb  POS = "verb"
	POSAdj   POS = "adj"
	POSAdv   POS = "adv"
	POSPrep  POS = "prep"
	POSComp  POS = "comp"
	POSVG    POS = "vg" // coordinator
	POSDet   POS = "det"
	POSNum   POS = "num"
	POSPunct POS = "punct"
	POSOther POS = "other"
)

var knownPOS = map[POS]struct{}{
	POSNoun: {}, POSName: {}, POSPron: {}, POSVerb: {}, POSAdj: {}, POSAdv: {},
	POSPrep: {}, POSComp: {}, POSVG: {}, POSDet: {}, POSNum: {}, POSPunct: {},
	POSOther: {},
}

// ParsePOS normalises a tag. Unknown tags map to POSOther.
func ParsePOS(s string) POS {
	p := POS(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownPOS[p]; ok {
		return p
	}
	return POSOther
}

// IsEntity reports whether terms with this tag receive a microportrait.
func (p POS) IsEntity() bool {
	return p == POSNoun || p == POSName || p == POSPron
}

// Relation is an Alpino dependency label in "head/dependent" notation,
// e.g. "hd/su" for the subject of a head.
type Relation string

const (
	RelSubject       Relation = "hd/su"
	RelObject        Relation = "hd/obj1"
	RelSecondObject  Relation = "hd/obj2"
	RelReflexive     Relation = "hd/se"
	RelPrepObject    Relation = "hd/pobj1"
	RelPrepComp      Relation = "hd/pc"
	RelVerbComp      Relation = "hd/vc"
	RelPredComp      Relation = "hd/predc"
	RelPredMod       Relation = "hd/predm"
	RelModifier      Relation = "hd/mod"
	RelDeterminer    Relation = "hd/det"
	RelApposition    Relation = "hd/app"
	RelLocative      Relation = "hd/ld"
	RelParticle      Relation = "hd/svp"
	RelSat           Relation = "hd/sat"
	RelMeasure       Relation = "hd/me"
	RelHeadHead      Relation = "hd/hd"
	RelSuperlative   Relation = "hd/sup"
	RelMultiword     Relation = "mwp/mwp"
	RelConjunct      Relation = "crd/cnj"
	RelConjConj      Relation = "cnj/cnj"
	RelCoordMod      Relation = "crd/mod"
	RelDiscourse     Relation = "dp/dp"
	RelDlinkNucleus  Relation = "dlink/nucl"
	RelRelBody       Relation = "rhd/body"
	RelRelMod        Relation = "rhd/mod"
	RelWhBody        Relation = "whd/body"
	RelCompBody      Relation = "cmp/body"
	RelSatNucleus    Relation = "sat/nucl"
	RelNucleusSat    Relation = "nucl/sat"
	RelTagNucleus    Relation = "tag/nucl"
	RelNucleusTag    Relation = "nucl/tag"
	RelTop           Relation = "-- / --"
	RelUnknown       Relation = ""
)

// ParseRelation normalises spacing around the label. The label itself is
// kept even when it is not one of the constants above so that it can be
// reported.
func ParseRelation(s string) Relation {
	s = strings.TrimSpace(s)
	if strings.Trim(s, "-/ ") == "" && strings.Contains(s, "--") {
		return RelTop
	}
	return Relation(s)
}

func (r Relation) String() string {
	return string(r)
}

// RelationSet is a closed set of relation labels.
type RelationSet map[Relation]struct{}

// NewRelationSet builds a set from the given labels.
func NewRelationSet(rels ...Relation) RelationSet {
	s := make(RelationSet, len(rels))
	for _, r := range rels {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is in the set.
func (s RelationSet) Has(r Relation) bool {
	_, ok := s[r]
	return ok
}
