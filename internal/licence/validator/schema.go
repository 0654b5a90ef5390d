package validator

import "github.com/hmpps/licence-management-api/internal/licence/model"

func requiredYesNo() Rule  { return Rule{Type: TypeYesNo, Require: Required} }
func requiredText() Rule   { return Rule{Type: TypeText, Require: Required} }
func optionalText() Rule   { return Rule{Type: TypeText, Require: Optional} }
func requiredTime() Rule   { return Rule{Type: TypeTime, Require: Required} }
func requiredPhone() Rule  { return Rule{Type: TypePhone, Require: Required} }
func requiredPostcode() Rule { return Rule{Type: TypePostcode, Require: Required} }
func optionalAge() Rule    { return Rule{Type: TypeAge, Require: Optional} }

func requiredIf(field, answer string) Rule {
	return Rule{Type: TypeText, When: &When{Field: field, Equals: answer, Then: Required, Otherwise: Optional}}
}

func selectionIf(field, answer string) Rule {
	return Rule{Type: TypeSelection, When: &When{Field: field, Equals: answer, Then: Required, Otherwise: Optional}}
}

var personRules = RuleSet{
	"name":         requiredText(),
	"age":          optionalAge(),
	"relationship": requiredText(),
}

// Schema declares the validation rule-sets for every licence section.
var Schema = map[string]SectionSchema{
	model.SectionEligibility: {
		"excluded": {Fields: RuleSet{
			"decision": requiredYesNo(),
			"reason":   selectionIf("decision", "Yes"),
		}},
		"suitability": {Fields: RuleSet{
			"decision": requiredYesNo(),
			"reason":   selectionIf("decision", "Yes"),
		}},
		"crdTime": {Fields: RuleSet{
			"decision": requiredYesNo(),
			"reason":   requiredIf("decision", "Yes"),
		}},
	},

	model.SectionProposedAddress: {
		"optOut": {Fields: RuleSet{
			"decision": requiredYesNo(),
			"reason":   requiredIf("decision", "Yes"),
		}},
		"addressProposed": {Fields: RuleSet{
			"decision": requiredYesNo(),
		}},
		"bassReferral": {Fields: RuleSet{
			"decision":       requiredYesNo(),
			"proposedTown":   requiredIf("decision", "Yes"),
			"proposedCounty": requiredIf("decision", "Yes"),
		}},
		"curfewAddress": {Fields: RuleSet{
			"addressLine1":             requiredText(),
			"addressLine2":             optionalText(),
			"addressTown":              requiredText(),
			"postCode":                 requiredPostcode(),
			"telephone":                requiredPhone(),
			"occupier":                 {Require: Required, Fields: personRules},
			"residents":                {Items: personRules},
			"cautionedAgainstResident": requiredYesNo(),
			"consent":                  requiredYesNo(),
			"electricity":              requiredIf("consent", "Yes"),
			"homeVisitConducted":       requiredIf("electricity", "Yes"),
			"deemedSafe":               requiredText(),
			"unsafeReason":             requiredIf("deemedSafe", "No"),
		}},
	},

	model.SectionCurfew: {
		"curfewHours": {Fields: RuleSet{
			"firstNightFrom":  requiredTime(),
			"firstNightUntil": requiredTime(),
			"mondayFrom":      requiredTime(),
			"mondayUntil":     requiredTime(),
			"tuesdayFrom":     requiredTime(),
			"tuesdayUntil":    requiredTime(),
			"wednesdayFrom":   requiredTime(),
			"wednesdayUntil":  requiredTime(),
			"thursdayFrom":    requiredTime(),
			"thursdayUntil":   requiredTime(),
			"fridayFrom":      requiredTime(),
			"fridayUntil":     requiredTime(),
			"saturdayFrom":    requiredTime(),
			"saturdayUntil":   requiredTime(),
			"sundayFrom":      requiredTime(),
			"sundayUntil":     requiredTime(),
		}},
	},

	model.SectionRisk: {
		"riskManagement": {Fields: RuleSet{
			"planningActions":            requiredYesNo(),
			"planningActionsDetails":     requiredIf("planningActions", "Yes"),
			"awaitingInformation":        requiredYesNo(),
			"awaitingInformationDetails": requiredIf("awaitingInformation", "Yes"),
			"victimLiaison":              requiredYesNo(),
			"victimLiaisonDetails":       requiredIf("victimLiaison", "Yes"),
		}},
	},

	model.SectionReporting: {
		"reportingInstructions": {Fields: RuleSet{
			"name":               requiredText(),
			"buildingAndStreet1": requiredText(),
			"buildingAndStreet2": optionalText(),
			"townOrCity":         requiredText(),
			"postcode":           requiredPostcode(),
			"telephone":          requiredPhone(),
		}},
	},

	model.SectionLicenceConditions: {
		"standard": {Fields: RuleSet{
			"additionalConditionsRequired": requiredText(),
		}},
		"additional": {PerKey: additionalConditionRules},
		"bespoke": {Items: RuleSet{
			"text":     requiredText(),
			"approved": requiredYesNo(),
		}},
	},

	model.SectionFinalChecks: {
		"seriousOffence": {Fields: RuleSet{
			"decision": requiredYesNo(),
		}},
		"onRemand": {Fields: RuleSet{
			"decision": requiredYesNo(),
		}},
	},

	model.SectionApproval: {
		"release": {Fields: RuleSet{
			"decision": requiredYesNo(),
			"reason":   requiredIf("decision", "No"),
		}},
	},
}

// additionalConditionRules validates the user input collected for each
// selectable additional condition. Conditions with no input fields carry
// an empty rule-set so stray answers are still rejected.
var additionalConditionRules = map[string]RuleSet{
	"NOCONTACTASSOCIATE": {
		"groupsOrOrganisation": requiredText(),
	},
	"INTIMATERELATIONSHIP": {
		"intimateGender": requiredText(),
	},
	"NOCONTACTNAMED": {
		"noContactOffenders": requiredText(),
	},
	"NORESIDE": {
		"notResideWithGender": requiredText(),
		"notResideWithAge":    requiredText(),
	},
	"NOUNSUPERVISEDCONTACT": {
		"unsupervisedContactGender": requiredText(),
		"unsupervisedContactAge":    requiredText(),
		"unsupervisedContactSocial": requiredText(),
	},
	"NOCHILDRENSAREA": {
		"notInSightOf": requiredText(),
	},
	"NOWORKWITHAGE": {
		"noWorkWithAge": requiredText(),
	},
	"NOCOMMUNICATEVICTIM": {
		"victimFamilyMembers": requiredText(),
		"socialServicesDept":  requiredText(),
	},
	"COMPLYREQUIREMENTS": {
		"courseOrCentre": requiredText(),
	},
	"ATTEND": {
		"appointmentDate":    {Type: TypeDate, Require: Required},
		"appointmentTime":    requiredTime(),
		"appointmentAddress": requiredText(),
	},
	"ATTENDALL": {
		"appointmentName": requiredText(),
	},
	"HOMEVISITS": {
		"mentalHealthName": requiredText(),
	},
	"REMAINADDRESS": {
		"curfewAddress":     requiredText(),
		"curfewFrom":        requiredText(),
		"curfewTo":          requiredText(),
		"curfewTagRequired": requiredText(),
	},
	"CONFINEADDRESS": {
		"confinedTo":              requiredText(),
		"confinedFrom":            requiredText(),
		"confinedReviewFrequency": requiredText(),
	},
	"REPORTTO": {
		"reportingAddress": requiredText(),
		"reportingTime":    optionalText(),
		"reportingDaily": {Type: TypeText, When: &When{
			Field: "reportingTime", Equals: "", Then: Required, Otherwise: MustBeBlank,
		}},
		"reportingFrequency": requiredText(),
	},
	"VEHICLEDETAILS": {
		"vehicleDetails": requiredText(),
	},
	"EXCLUSIONADDRESS": {
		"noEnterPlace": requiredText(),
	},
	"EXCLUSIONAREA": {
		"exclusionArea": requiredText(),
	},
	"NOTIFYRELATIONSHIP":   {},
	"NOCONTACTPRISONER":    {},
	"NOCONTACTSEXOFFENDER": {},
	"CAMERAAPPROVAL":       {},
	"NOCAMERA":             {},
	"NOCAMERAPHONE":        {},
	"USAGEHISTORY":         {},
	"NOINTERNET":           {},
	"ONEPHONE":             {},
	"RETURNTOUK":           {},
	"SURRENDERPASSPORT":    {},
	"NOTIFYPASSPORT":       {},
}
