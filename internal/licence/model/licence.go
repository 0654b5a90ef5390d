package model

// Licence is the nested answer document for one offender. Sections hold
// forms, forms hold answers. The document is schemaless at this level;
// the validator and field maps give it shape.
type Licence map[string]interface{}

// ErrorTree mirrors the licence document shape, with a message string at
// each failing leaf.
type ErrorTree map[string]interface{}

// Processing stages of a licence case.
const (
	StageStarted      = "STARTED"
	StageEligibility  = "ELIGIBILITY"
	StageProcessingRO = "PROCESSING_RO"
	StageProcessingCA = "PROCESSING_CA"
	StageApproval     = "APPROVAL"
	StageDecided      = "DECIDED"
)

// Roles that hand a case between each other.
const (
	RoleCA = "CA"
	RoleRO = "RO"
	RoleDM = "DM"
)

// Section names of the licence document.
const (
	SectionEligibility       = "eligibility"
	SectionProposedAddress   = "proposedAddress"
	SectionCurfew            = "curfew"
	SectionRisk              = "risk"
	SectionReporting         = "reporting"
	SectionLicenceConditions = "licenceConditions"
	SectionFinalChecks       = "finalChecks"
	SectionApproval          = "approval"
)

// CaseRecord is one row of the LICENCES table.
type CaseRecord struct {
	ID      int64
	NomisID string
	Licence Licence
	Stage   string
	Version int
}

// DeepCopy returns an independent copy of the licence document.
func (l Licence) DeepCopy() Licence {
	return Licence(deepCopyMap(l))
}

// Section returns the content under the named section, or nil.
func (l Licence) Section(name string) map[string]interface{} {
	section, _ := l[name].(map[string]interface{})
	return section
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, member := range val {
			out[i] = deepCopyValue(member)
		}
		return out
	default:
		return val
	}
}
