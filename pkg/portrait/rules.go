package portrait

import "github.com/cltl/micro-portraits/pkg/common"

// analysis selects the analyzer for the relation that governs an entity.
// The zero value is the unhandled case, so labels missing from
// governingRules fall through to a diagnostic.
type analysis int

const (
	analysisUnhandled analysis = iota
	analysisIgnore
	analysisSubject
	analysisObject
	analysisSecondObject
	analysisCoordination
)

var governingRules = map[common.Relation]analysis{
	common.RelSubject: analysisSubject,

	common.RelObject:       analysisObject,
	common.RelReflexive:    analysisObject,
	common.RelPrepObject:   analysisObject,
	common.RelVerbComp:     analysisObject,
	common.RelDlinkNucleus: analysisObject,

	common.RelSecondObject: analysisSecondObject,

	common.RelConjunct: analysisCoordination,
	common.RelConjConj: analysisCoordination,

	// Labels and properties are collected by the assembler.
	common.RelSuperlative: analysisIgnore,
	common.RelRelBody:     analysisIgnore,
	common.RelPredComp:    analysisIgnore,
	common.RelHeadHead:    analysisIgnore,
	common.RelModifier:    analysisIgnore,
	common.RelMeasure:     analysisIgnore,
	common.RelCompBody:    analysisIgnore,
	common.RelApposition:  analysisIgnore,
	common.RelDeterminer:  analysisIgnore,
	common.RelMultiword:   analysisIgnore,
	common.RelTop:         analysisIgnore,
	common.RelDiscourse:   analysisIgnore,
	common.RelNucleusSat:  analysisIgnore,
	common.RelTagNucleus:  analysisIgnore,
	common.RelNucleusTag:  analysisIgnore,
}

func ruleFor(rel common.Relation) analysis {
	return governingRules[rel]
}

// secondaryRules decides which dependents of an event become secondary
// contributions. Relations in neither set are reported as unhandled.
type secondaryRules struct {
	accept  common.RelationSet
	ignore  common.RelationSet
	markers map[common.Relation]string
}

func (r secondaryRules) marker(rel common.Relation) string {
	return r.markers[rel]
}

var subjectRules = secondaryRules{
	accept: common.NewRelationSet(
		common.RelObject, common.RelLocative, common.RelDiscourse, common.RelPrepComp,
		common.RelPrepObject, common.RelSecondObject, common.RelReflexive, common.RelModifier,
		common.RelPredMod, common.RelWhBody, common.RelVerbComp,
	),
	ignore: common.NewRelationSet(
		common.RelSubject, common.RelNucleusSat, common.RelParticle, common.RelNucleusTag,
		common.RelTagNucleus, common.RelSat, common.RelTop, common.RelPredComp,
		common.RelCompBody, common.RelSatNucleus,
	),
}

var objectRules = secondaryRules{
	accept: common.NewRelationSet(
		common.RelSubject, common.RelLocative, common.RelDiscourse, common.RelPrepComp,
		common.RelPrepObject, common.RelSecondObject, common.RelReflexive, common.RelModifier,
		common.RelPredMod, common.RelVerbComp, common.RelObject,
	),
	ignore: common.NewRelationSet(
		common.RelParticle, common.RelNucleusTag, common.RelTagNucleus, common.RelSat,
		common.RelTop, common.RelPredComp, common.RelCompBody, common.RelSatNucleus,
		common.RelNucleusSat, common.RelDeterminer, common.RelDlinkNucleus, common.RelWhBody,
	),
}

// undergoerRules adds the agent marker to subjects of the event.
var undergoerRules = secondaryRules{
	accept:  objectRules.accept,
	ignore:  objectRules.ignore,
	markers: map[common.Relation]string{common.RelSubject: MarkerBy},
}

var hasRoleRules = secondaryRules{
	accept: common.NewRelationSet(
		common.RelSubject, common.RelObject, common.RelPredMod, common.RelReflexive,
		common.RelModifier, common.RelParticle, common.RelVerbComp, common.RelPredComp,
		common.RelLocative, common.RelDiscourse, common.RelPrepComp,
	),
	ignore: common.NewRelationSet(
		common.RelSecondObject, common.RelCompBody, common.RelSatNucleus, common.RelTop,
		common.RelNucleusSat, common.RelTagNucleus, common.RelNucleusTag,
	),
}

// recipientRules reads the subject as the source of a transfer.
var recipientRules = secondaryRules{
	accept:  hasRoleRules.accept,
	ignore:  hasRoleRules.ignore,
	markers: map[common.Relation]string{common.RelSubject: MarkerFrom},
}

var passiveRules = secondaryRules{
	accept: common.NewRelationSet(
		common.RelLocative, common.RelDiscourse, common.RelPrepComp, common.RelPrepObject,
		common.RelSecondObject, common.RelReflexive, common.RelModifier,
	),
	ignore: common.NewRelationSet(
		common.RelSubject, common.RelObject, common.RelVerbComp, common.RelParticle,
		common.RelPredComp, common.RelPredMod, common.RelCompBody, common.RelNucleusSat,
		common.RelSatNucleus, common.RelTagNucleus, common.RelNucleusTag, common.RelTop,
		common.RelSat, common.RelMeasure, common.RelHeadHead,
	),
}

// coordinationRelations link a coordinator to its conjuncts.
var coordinationRelations = common.NewRelationSet(common.RelConjunct, common.RelConjConj)

// convergingRelations mark heads that share an argument through
// coordination or control rather than through a hierarchy.
var convergingRelations = common.NewRelationSet(
	common.RelConjunct, common.RelConjConj, common.RelRelBody, common.RelCompBody,
	common.RelSatNucleus, common.RelWhBody,
)

// Relations between a preposition and its governor that make the
// preposition name the role.
var prepositionRoleRelations = common.NewRelationSet(
	common.RelModifier, common.RelLocative, common.RelObject, common.RelCompBody,
	common.RelPredComp, common.RelCoordMod, common.RelPrepComp,
)

var prepositionIgnored = common.NewRelationSet(common.RelConjunct, common.RelDiscourse)

// Support verbs whose second object names a role of the entity rather
// than a recipient. Alpino lemmatises "is" as "ben" and "heeft" as "heb".
var lightVerbs = map[string]struct{}{
	"ben": {}, "heb": {}, "doe": {},
	"zijn": {}, "hebben": {}, "doen": {},
}

// Dependents of an entity that extend its label.
var labelRelations = common.NewRelationSet(common.RelDeterminer, common.RelApposition)

// Dependents of an entity recorded as properties.
var propertyRelations = common.NewRelationSet(
	common.RelModifier, common.RelDiscourse, common.RelConjConj, common.RelRelBody,
	common.RelVerbComp, common.RelTagNucleus, common.RelNucleusTag, common.RelTop,
	common.RelWhBody, common.RelMeasure, common.RelSatNucleus, common.RelRelMod,
	common.RelPredMod,
)
