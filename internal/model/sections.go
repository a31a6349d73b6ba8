package model

// SectionID names one lettered section of the MDS 3.0 assessment form.
type SectionID string

const (
	SectionA SectionID = "A" // identification
	SectionB SectionID = "B" // hearing, speech, vision
	SectionC SectionID = "C" // cognitive patterns
	SectionD SectionID = "D" // mood
	SectionE SectionID = "E" // behavior
	SectionF SectionID = "F" // preferences for routine
	SectionG SectionID = "G" // functional status
	SectionH SectionID = "H" // bladder and bowel
	SectionI SectionID = "I" // active diagnoses
	SectionJ SectionID = "J" // health conditions
	SectionK SectionID = "K" // swallowing/nutrition
	SectionL SectionID = "L" // oral/dental
	SectionM SectionID = "M" // skin conditions
	SectionN SectionID = "N" // medications
	SectionO SectionID = "O" // special treatments and therapies
	SectionP SectionID = "P" // restraints and alarms
	SectionQ SectionID = "Q" // participation in assessment
	SectionS SectionID = "S" // state-specific items
	SectionV SectionID = "V" // care area assessment summary
	SectionZ SectionID = "Z" // assessment administration
)

// ItemKind describes how an item's default value is shaped.
type ItemKind int

const (
	ItemNumeric ItemKind = iota // numeric-as-text code, defaults to "0"
	ItemList                    // list of codes, defaults to empty
	ItemFlag                    // boolean marker, defaults to false
)

// ItemSpec is one expected item of a section.
type ItemSpec struct {
	Code string // lower-case item code, e.g. "g0110a"
	Name string
	Kind ItemKind
}

// SectionSpec lists the items the normalizer guarantees for a section.
type SectionSpec struct {
	ID    SectionID
	Items []ItemSpec
}

// ADL self-performance items (G0110) that make up the ADL score.
var ADLItems = []ItemSpec{
	{Code: "g0110a", Name: "bed mobility"},
	{Code: "g0110b", Name: "transfer"},
	{Code: "g0110c", Name: "walk in room"},
	{Code: "g0110d", Name: "walk in corridor"},
	{Code: "g0110g", Name: "dressing"},
	{Code: "g0110h", Name: "eating"},
	{Code: "g0110i", Name: "toilet use"},
	{Code: "g0110j", Name: "personal hygiene"},
}

// BehaviorItems are the Section E items summed into the behavior score.
var BehaviorItems = []ItemSpec{
	{Code: "e0800", Name: "rejection of care"},
	{Code: "e0900", Name: "wandering"},
	{Code: "e0200a", Name: "behavior toward others"},
	{Code: "e0200c", Name: "behavior not toward others"},
}

// ComplexConditions is the default allow-list of condition identifiers that
// qualify a resident for the special-care-high branch.
var ComplexConditions = []string{
	"ventilator",
	"tracheostomy",
	"iv_medications",
	"dialysis",
	"chemotherapy",
	"radiation",
	"isolation",
}

// ActiveDiagnosesItem holds the Section I list of active diagnosis codes.
const ActiveDiagnosesItem = "i_active_diagnoses"

// TherapyTotalItem carries the weekly therapy total when the upstream
// system records one in Section O.
const TherapyTotalItem = "o0400_total_minutes"

// AllSections lists the fixed set of sections in canonical order. Every
// normalized assessment carries all of them.
var AllSections = []SectionSpec{
	{ID: SectionA},
	{ID: SectionB},
	{ID: SectionC},
	{ID: SectionD},
	{ID: SectionE, Items: BehaviorItems},
	{ID: SectionF},
	{ID: SectionG, Items: ADLItems},
	{ID: SectionH},
	{ID: SectionI, Items: append([]ItemSpec{{Code: ActiveDiagnosesItem, Name: "active diagnoses", Kind: ItemList}}, conditionFlags()...)},
	{ID: SectionJ, Items: conditionFlags()},
	{ID: SectionK},
	{ID: SectionL},
	{ID: SectionM},
	{ID: SectionN},
	{ID: SectionO, Items: []ItemSpec{{Code: TherapyTotalItem, Name: "total weekly therapy minutes"}}},
	{ID: SectionP},
	{ID: SectionQ},
	{ID: SectionS},
	{ID: SectionV},
	{ID: SectionZ},
}

func conditionFlags() []ItemSpec {
	items := make([]ItemSpec, len(ComplexConditions))
	for i, c := range ComplexConditions {
		items[i] = ItemSpec{Code: c, Name: c, Kind: ItemFlag}
	}
	return items
}

// SectionIDs returns just the ids of AllSections.
func SectionIDs() []SectionID {
	ids := make([]SectionID, len(AllSections))
	for i, s := range AllSections {
		ids[i] = s.ID
	}
	return ids
}
