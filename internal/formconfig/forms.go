// Package formconfig declares, per form, the field map applied to
// submissions and the routing metadata used by the task list.
package formconfig

import (
	"github.com/hmpps/licence-management-api/internal/licence/fieldmap"
	"github.com/hmpps/licence-management-api/internal/licence/model"
)

// NextPath routes to the next page after a form is saved. When a
// discriminator is set, the submitted value selects from Decisions,
// falling back to Path.
type NextPath struct {
	Discriminator string
	Decisions     map[string]string
	Path          string
}

// Resolve returns the next page for the given submission.
func (n NextPath) Resolve(input map[string]interface{}) string {
	if n.Discriminator != "" {
		if value, ok := input[n.Discriminator].(string); ok {
			if path, ok := n.Decisions[value]; ok {
				return path
			}
		}
	}
	return n.Path
}

// FormConfig is the configuration for one editable form.
type FormConfig struct {
	Fields                       fieldmap.FieldMap
	NextPath                     NextPath
	ModificationRequiresApproval bool
}

const taskListPath = "/hdc/taskList/"

var personFields = fieldmap.FieldMap{
	{Name: "name"},
	{Name: "age"},
	{Name: "relationship"},
}

var curfewAddressFields = fieldmap.FieldMap{
	{Name: "addressLine1"},
	{Name: "addressLine2"},
	{Name: "addressTown"},
	{Name: "postCode"},
	{Name: "telephone"},
	{Name: "occupier", Contains: personFields},
	{Name: "residents", IsList: true, Contains: personFields},
	{Name: "cautionedAgainstResident"},
	{Name: "consent"},
	{Name: "electricity", DependentOn: "consent", Predicate: "Yes"},
	{Name: "homeVisitConducted", DependentOn: "electricity", Predicate: "Yes"},
	{Name: "deemedSafe"},
	{Name: "unsafeReason", DependentOn: "deemedSafe", Predicate: "No"},
}

var forms = map[string]map[string]FormConfig{
	model.SectionEligibility: {
		"excluded": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
			},
			NextPath: NextPath{Path: "/hdc/eligibility/suitability/"},
		},
		"suitability": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
			},
			NextPath: NextPath{Path: "/hdc/eligibility/crdTime/"},
		},
		"crdTime": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionProposedAddress: {
		"optOut": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
			},
			NextPath: NextPath{
				Discriminator: "decision",
				Decisions: map[string]string{
					"Yes": taskListPath,
					"No":  "/hdc/proposedAddress/addressProposed/",
				},
				Path: taskListPath,
			},
		},
		"addressProposed": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
			},
			NextPath: NextPath{
				Discriminator: "decision",
				Decisions: map[string]string{
					"Yes": "/hdc/proposedAddress/curfewAddress/",
					"No":  "/hdc/proposedAddress/bassReferral/",
				},
				Path: taskListPath,
			},
		},
		"bassReferral": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "proposedTown", DependentOn: "decision", Predicate: "Yes"},
				{Name: "proposedCounty", DependentOn: "decision", Predicate: "Yes"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
		"curfewAddress": {
			Fields:   curfewAddressFields,
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionCurfew: {
		"curfewHours": {
			Fields: fieldmap.FieldMap{
				{Name: "firstNightFrom"}, {Name: "firstNightUntil"},
				{Name: "mondayFrom"}, {Name: "mondayUntil"},
				{Name: "tuesdayFrom"}, {Name: "tuesdayUntil"},
				{Name: "wednesdayFrom"}, {Name: "wednesdayUntil"},
				{Name: "thursdayFrom"}, {Name: "thursdayUntil"},
				{Name: "fridayFrom"}, {Name: "fridayUntil"},
				{Name: "saturdayFrom"}, {Name: "saturdayUntil"},
				{Name: "sundayFrom"}, {Name: "sundayUntil"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionRisk: {
		"riskManagement": {
			Fields: fieldmap.FieldMap{
				{Name: "planningActions"},
				{Name: "planningActionsDetails", DependentOn: "planningActions", Predicate: "Yes"},
				{Name: "awaitingInformation"},
				{Name: "awaitingInformationDetails", DependentOn: "awaitingInformation", Predicate: "Yes"},
				{Name: "victimLiaison"},
				{Name: "victimLiaisonDetails", DependentOn: "victimLiaison", Predicate: "Yes"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionReporting: {
		"reportingInstructions": {
			Fields: fieldmap.FieldMap{
				{Name: "name"},
				{Name: "buildingAndStreet1"},
				{Name: "buildingAndStreet2"},
				{Name: "townOrCity"},
				{Name: "postcode"},
				{Name: "telephone"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionLicenceConditions: {
		"standard": {
			Fields: fieldmap.FieldMap{
				{Name: "additionalConditionsRequired"},
			},
			NextPath: NextPath{
				Discriminator: "additionalConditionsRequired",
				Decisions: map[string]string{
					"Yes": "/hdc/licenceConditions/additionalConditions/",
					"No":  taskListPath,
				},
				Path: taskListPath,
			},
			ModificationRequiresApproval: true,
		},
	},

	model.SectionFinalChecks: {
		"seriousOffence": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
			},
			NextPath: NextPath{Path: "/hdc/finalChecks/onRemand/"},
		},
		"onRemand": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},

	model.SectionApproval: {
		"release": {
			Fields: fieldmap.FieldMap{
				{Name: "decision"},
				{Name: "reason", DependentOn: "decision", Predicate: "No"},
			},
			NextPath: NextPath{Path: taskListPath},
		},
	},
}

// Lookup returns the configuration for a form within a section.
func Lookup(section, form string) (FormConfig, bool) {
	sectionForms, ok := forms[section]
	if !ok {
		return FormConfig{}, false
	}
	cfg, ok := sectionForms[form]
	return cfg, ok
}

// addressFields carries only scalar answers. An address update merges
// into the stored entry, so list and object fields are managed through
// their own forms rather than overwritten here.
var addressFields = fieldmap.FieldMap{
	{Name: "addressLine1"},
	{Name: "addressLine2"},
	{Name: "addressTown"},
	{Name: "postCode"},
	{Name: "telephone"},
	{Name: "cautionedAgainstResident"},
	{Name: "consent"},
	{Name: "electricity", DependentOn: "consent", Predicate: "Yes"},
	{Name: "homeVisitConducted", DependentOn: "electricity", Predicate: "Yes"},
	{Name: "deemedSafe"},
	{Name: "unsafeReason", DependentOn: "deemedSafe", Predicate: "No"},
}

// AddressFields is the field map applied when a single proposed address
// is updated in place.
func AddressFields() fieldmap.FieldMap {
	return addressFields
}
