// Package conditions renders additional and bespoke licence conditions
// from their catalog templates and the offender's answers.
package conditions

import "encoding/json"

// Condition is one catalog entry for a selectable additional condition.
// Text may contain bracketed placeholders which rendering replaces with
// the offender's answers.
type Condition struct {
	ID           string
	Text         string
	UserInput    string
	GroupName    string
	SubgroupName string
	DisplayOrder int

	// FieldPosition maps each collected input field to the placeholder
	// ordinal it fills.
	FieldPosition map[string]int
}

// InputRequired reports whether the condition collects user input.
func (c Condition) InputRequired() bool {
	return c.UserInput != ""
}

// Bespoke is a free-text condition entered by a caseworker.
type Bespoke struct {
	Text     string `json:"text"`
	Approved string `json:"approved"`
}

// PartKind distinguishes the units of rendered condition content.
type PartKind string

const (
	PartText     PartKind = "text"
	PartVariable PartKind = "variable"
	PartError    PartKind = "error"
)

// ContentPart is one unit of rendered condition text.
type ContentPart struct {
	Kind  PartKind
	Value string
}

func (p ContentPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{string(p.Kind): p.Value})
}

func textPart(value string) ContentPart     { return ContentPart{Kind: PartText, Value: value} }
func variablePart(value string) ContentPart { return ContentPart{Kind: PartVariable, Value: value} }
func errorPart(value string) ContentPart    { return ContentPart{Kind: PartError, Value: value} }

// ViewCondition is a condition rendered for form display, with answers
// and errors kept as distinct units.
type ViewCondition struct {
	ID            string        `json:"id"`
	Group         string        `json:"group"`
	Subgroup      string        `json:"subgroup"`
	InputRequired bool          `json:"inputRequired"`
	Approved      string        `json:"approved,omitempty"`
	Content       []ContentPart `json:"content"`
}

// DocumentCondition is a condition rendered to flat text for the licence
// document.
type DocumentCondition struct {
	ID       string `json:"id"`
	Group    string `json:"group"`
	Subgroup string `json:"subgroup"`
	Approved string `json:"approved,omitempty"`
	Content  string `json:"content"`
}

// multiFieldGroup joins several input fields into a single rendered
// unit, interleaving the values with the joining strings.
type multiFieldGroup struct {
	Fields  []string
	Joining []string
}

var multiFields = map[string]multiFieldGroup{
	"appointmentDetails": {
		Fields:  []string{"appointmentAddress", "appointmentDate", "appointmentTime"},
		Joining: []string{" on ", " at "},
	},
	"attendSampleDetails": {
		Fields:  []string{"attendSampleDetailsName", "attendSampleDetailsAddress"},
		Joining: []string{", "},
	},
}
