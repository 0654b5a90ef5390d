package licence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmpps/licence-management-api/internal/licence/conditions"
	"github.com/hmpps/licence-management-api/internal/licence/model"
	"github.com/hmpps/licence-management-api/internal/system/error/serviceerror"
)

type sectionUpdate struct {
	section string
	content interface{}
}

type fakeStore struct {
	record    *model.CaseRecord
	getErr    error
	writeErr  error
	createdID int64

	createdLicence model.Licence
	createdStage   string
	updatedLicence model.Licence
	updatedSection *sectionUpdate
	updatedStage   string
}

func (f *fakeStore) GetLicence(nomisID string) (*model.CaseRecord, error) {
	return f.record, f.getErr
}

func (f *fakeStore) CreateLicence(nomisID string, licence model.Licence, stage string) (int64, error) {
	f.createdLicence = licence
	f.createdStage = stage
	return f.createdID, f.writeErr
}

func (f *fakeStore) UpdateLicence(nomisID string, licence model.Licence) error {
	f.updatedLicence = licence
	return f.writeErr
}

func (f *fakeStore) UpdateSection(section, nomisID string, content interface{}) error {
	f.updatedSection = &sectionUpdate{section: section, content: content}
	return f.writeErr
}

func (f *fakeStore) UpdateStage(nomisID, stage string) error {
	f.updatedStage = stage
	return f.writeErr
}

type fakeConditionStore struct {
	catalog []conditions.Condition
	err     error
	gotIDs  []string
}

func (f *fakeConditionStore) GetActive() ([]conditions.Condition, error) {
	return f.catalog, f.err
}

func (f *fakeConditionStore) GetByIDs(ids []string) ([]conditions.Condition, error) {
	f.gotIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	var out []conditions.Condition
	for _, c := range f.catalog {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

type fakeGenerator struct {
	document []byte
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, template string, values map[string]string) ([]byte, error) {
	return f.document, f.err
}

func record(licence model.Licence) *model.CaseRecord {
	return &model.CaseRecord{
		ID:      1,
		NomisID: "A1235HG",
		Licence: licence,
		Stage:   model.StageEligibility,
		Version: 1,
	}
}

func newService(store *fakeStore, condStore *fakeConditionStore) LicenceServiceInterface {
	if condStore == nil {
		condStore = &fakeConditionStore{}
	}
	return NewLicenceService(store, condStore, &fakeGenerator{document: []byte("%PDF-1.4")})
}

func TestGetLicenceNotFound(t *testing.T) {
	service := newService(&fakeStore{}, nil)

	_, svcErr := service.GetLicence("A1235HG")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ResourceNotFoundError.Code, svcErr.Code)
}

func TestGetLicenceDatabaseError(t *testing.T) {
	service := newService(&fakeStore{getErr: errors.New("down")}, nil)

	_, svcErr := service.GetLicence("A1235HG")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.DatabaseError.Code, svcErr.Code)
}

func TestCreateLicenceStartsNewCase(t *testing.T) {
	store := &fakeStore{createdID: 7}
	service := newService(store, nil)

	id, svcErr := service.CreateLicence("A1235HG", nil)

	require.Nil(t, svcErr)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, model.StageStarted, store.createdStage)
	assert.Equal(t, model.Licence{}, store.createdLicence)
}

func TestCreateLicenceConflict(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{})}
	service := newService(store, nil)

	_, svcErr := service.CreateLicence("A1235HG", nil)

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ConflictError.Code, svcErr.Code)
}

func TestUpdateFormReplacesFormAnswers(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"eligibility": map[string]interface{}{
			"excluded": map[string]interface{}{"decision": "No"},
		},
	})}
	service := newService(store, nil)

	input := map[string]interface{}{
		"decision":   "Yes",
		"reason":     []interface{}{"sexOffenderRegister"},
		"unexpected": "dropped",
	}

	updated, _, svcErr := service.UpdateForm("A1235HG", "eligibility", "excluded", input)

	require.Nil(t, svcErr)
	assert.Equal(t, map[string]interface{}{
		"decision": "Yes",
		"reason":   []interface{}{"sexOffenderRegister"},
	}, updated["eligibility"].(map[string]interface{})["excluded"])
	assert.Equal(t, updated, store.updatedLicence)
}

func TestUpdateFormDropsUnmatchedDependent(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{})}
	service := newService(store, nil)

	input := map[string]interface{}{
		"decision": "No",
		"reason":   []interface{}{"sexOffenderRegister"},
	}

	updated, _, svcErr := service.UpdateForm("A1235HG", "eligibility", "excluded", input)

	require.Nil(t, svcErr)
	assert.Equal(t, map[string]interface{}{
		"decision": "No",
	}, updated["eligibility"].(map[string]interface{})["excluded"])
}

func TestUpdateFormLeavesOtherFormsAlone(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"eligibility": map[string]interface{}{
			"excluded": map[string]interface{}{"decision": "No"},
		},
	})}
	service := newService(store, nil)

	updated, _, svcErr := service.UpdateForm("A1235HG", "eligibility", "suitability",
		map[string]interface{}{"decision": "Yes", "reason": []interface{}{"deportation"}})

	require.Nil(t, svcErr)
	eligibility := updated["eligibility"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"decision": "No"}, eligibility["excluded"])
	assert.Equal(t, map[string]interface{}{
		"decision": "Yes",
		"reason":   []interface{}{"deportation"},
	}, eligibility["suitability"])
}

func TestUpdateFormDoesNotMutateStoredRecord(t *testing.T) {
	original := model.Licence{
		"eligibility": map[string]interface{}{
			"excluded": map[string]interface{}{"decision": "No"},
		},
	}
	store := &fakeStore{record: record(original)}
	service := newService(store, nil)

	_, _, svcErr := service.UpdateForm("A1235HG", "eligibility", "excluded",
		map[string]interface{}{"decision": "Yes"})

	require.Nil(t, svcErr)
	assert.Equal(t, map[string]interface{}{"decision": "No"},
		original["eligibility"].(map[string]interface{})["excluded"])
}

func TestUpdateFormReportsNextPath(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{})}
	service := newService(store, nil)

	_, next, svcErr := service.UpdateForm("A1235HG", "licenceConditions", "standard",
		map[string]interface{}{"additionalConditionsRequired": "Yes"})

	require.Nil(t, svcErr)
	assert.Equal(t, "/hdc/licenceConditions/additionalConditions/", next)
}

func TestUpdateFormUnknownForm(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	_, _, svcErr := service.UpdateForm("A1235HG", "eligibility", "nonsense", nil)

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InvalidRequestError.Code, svcErr.Code)
}

func addressLicence() model.Licence {
	return model.Licence{
		"proposedAddress": map[string]interface{}{
			"curfewAddress": map[string]interface{}{
				"addresses": []interface{}{
					map[string]interface{}{"postCode": "pc1"},
					map[string]interface{}{"postCode": "pc2"},
				},
			},
		},
		"otherField": "other",
	}
}

func TestUpdateAddressMergesIntoIndexedEntry(t *testing.T) {
	store := &fakeStore{record: record(addressLicence())}
	service := newService(store, nil)

	updated, svcErr := service.UpdateAddress("A1235HG", 1,
		map[string]interface{}{"addressLine1": "19 Grantham Road", "unwantedField": "unwanted"})

	require.Nil(t, svcErr)
	addresses := updated["proposedAddress"].(map[string]interface{})["curfewAddress"].(map[string]interface{})["addresses"].([]interface{})
	assert.Equal(t, map[string]interface{}{"postCode": "pc1"}, addresses[0])
	assert.Equal(t, map[string]interface{}{
		"postCode":     "pc2",
		"addressLine1": "19 Grantham Road",
	}, addresses[1])
	assert.Equal(t, "other", updated["otherField"])
	assert.Equal(t, updated, store.updatedLicence)
}

func TestUpdateAddressIndexOutOfRange(t *testing.T) {
	service := newService(&fakeStore{record: record(addressLicence())}, nil)

	_, svcErr := service.UpdateAddress("A1235HG", 5, map[string]interface{}{})

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InvalidRequestError.Code, svcErr.Code)
}

func TestUpdateConditionsPreservesStandardAndReplacesRest(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"licenceConditions": map[string]interface{}{
			"standard": map[string]interface{}{"additionalConditionsRequired": "Yes"},
		},
	})}
	condStore := &fakeConditionStore{catalog: []conditions.Condition{
		{ID: "ATTENDALL", FieldPosition: map[string]int{"appointmentName": 0}},
	}}
	service := newService(store, condStore)

	content, svcErr := service.UpdateConditions("A1235HG",
		[]string{"ATTENDALL"},
		map[string]interface{}{"appointmentName": "Dr Smith"},
		[]conditions.Bespoke{{Text: "bespoke", Approved: "Yes"}})

	require.Nil(t, svcErr)
	assert.Equal(t, []string{"ATTENDALL"}, condStore.gotIDs)
	assert.Equal(t, map[string]interface{}{
		"standard": map[string]interface{}{"additionalConditionsRequired": "Yes"},
		"additional": map[string]interface{}{
			"ATTENDALL": map[string]interface{}{"appointmentName": "Dr Smith"},
		},
		"bespoke": []interface{}{
			map[string]interface{}{"text": "bespoke", "approved": "Yes"},
		},
	}, content)
	require.NotNil(t, store.updatedSection)
	assert.Equal(t, "licenceConditions", store.updatedSection.section)
	assert.Equal(t, content, store.updatedSection.content)
}

func conditionsRecord() *model.CaseRecord {
	return record(model.Licence{
		"licenceConditions": map[string]interface{}{
			"standard":   map[string]interface{}{"additionalConditionsRequired": "Yes"},
			"additional": map[string]interface{}{"1": map[string]interface{}{}, "2": map[string]interface{}{}, "3": map[string]interface{}{}},
			"bespoke": []interface{}{
				map[string]interface{}{"text": "0"},
				map[string]interface{}{"text": "1"},
				map[string]interface{}{"text": "2"},
			},
		},
	})
}

func TestDeleteConditionByID(t *testing.T) {
	store := &fakeStore{record: conditionsRecord()}
	service := newService(store, nil)

	svcErr := service.DeleteCondition("A1235HG", "2")

	require.Nil(t, svcErr)
	content := store.updatedSection.content.(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"1": map[string]interface{}{},
		"3": map[string]interface{}{},
	}, content["additional"])
	assert.Len(t, content["bespoke"], 3)
}

func TestDeleteConditionByBespokeIndex(t *testing.T) {
	store := &fakeStore{record: conditionsRecord()}
	service := newService(store, nil)

	svcErr := service.DeleteCondition("A1235HG", "bespoke-1")

	require.Nil(t, svcErr)
	content := store.updatedSection.content.(map[string]interface{})
	assert.Equal(t, []interface{}{
		map[string]interface{}{"text": "0"},
		map[string]interface{}{"text": "2"},
	}, content["bespoke"])
	assert.Len(t, content["additional"], 3)
}

func TestDeleteConditionUnknownID(t *testing.T) {
	store := &fakeStore{record: conditionsRecord()}
	service := newService(store, nil)

	svcErr := service.DeleteCondition("A1235HG", "99")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ResourceNotFoundError.Code, svcErr.Code)
	assert.Nil(t, store.updatedSection)
}

func TestMarkForHandoverStages(t *testing.T) {
	cases := []struct {
		sender, receiver, stage string
	}{
		{"CA", "RO", "PROCESSING_RO"},
		{"CA", "DM", "APPROVAL"},
		{"DM", "CA", "DECIDED"},
	}

	for _, tc := range cases {
		store := &fakeStore{record: record(model.Licence{})}
		service := newService(store, nil)

		stage, svcErr := service.MarkForHandover("A1235HG", tc.sender, tc.receiver)

		require.Nil(t, svcErr)
		assert.Equal(t, tc.stage, stage)
		assert.Equal(t, tc.stage, store.updatedStage)
	}
}

func TestMarkForHandoverROToCADependsOnOptOut(t *testing.T) {
	optedOut := &fakeStore{record: record(model.Licence{
		"proposedAddress": map[string]interface{}{
			"optOut": map[string]interface{}{"decision": "Yes"},
		},
	})}
	service := newService(optedOut, nil)

	stage, svcErr := service.MarkForHandover("A1235HG", "RO", "CA")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StageEligibility, stage)

	notOptedOut := &fakeStore{record: record(model.Licence{
		"proposedAddress": map[string]interface{}{
			"optOut": map[string]interface{}{"decision": "No"},
		},
	})}
	service = newService(notOptedOut, nil)

	stage, svcErr = service.MarkForHandover("A1235HG", "RO", "CA")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StageProcessingCA, stage)
}

func TestMarkForHandoverUnknownPair(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	_, svcErr := service.MarkForHandover("A1235HG", "CA", "UNMATCHED")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InvalidRequestError.Code, svcErr.Code)
}

func TestLicenceErrorsDefaultsToReviewSections(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	tree, svcErr := service.LicenceErrors("A1235HG", nil)

	require.Nil(t, svcErr)
	assert.Equal(t, model.ErrorTree{
		"eligibility":       "Not answered",
		"proposedAddress":   "Not answered",
		"curfew":            "Not answered",
		"risk":              "Not answered",
		"reporting":         "Not answered",
		"licenceConditions": "Not answered",
	}, tree)
}

func TestLicenceErrorsNamedSectionsOnly(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	tree, svcErr := service.LicenceErrors("A1235HG", []string{"licenceConditions"})

	require.Nil(t, svcErr)
	assert.Equal(t, model.ErrorTree{"licenceConditions": "Not answered"}, tree)
}

func TestLicenceErrorsUnknownSection(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	_, svcErr := service.LicenceErrors("A1235HG", []string{"nonsense"})

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InvalidRequestError.Code, svcErr.Code)
}

func TestConditionsForViewRendersSelected(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"licenceConditions": map[string]interface{}{
			"standard": map[string]interface{}{"additionalConditionsRequired": "Yes"},
			"additional": map[string]interface{}{
				"ATTENDALL": map[string]interface{}{"appointmentName": "Dr Smith"},
			},
			"bespoke": []interface{}{
				map[string]interface{}{"text": "stay home", "approved": "Yes"},
			},
		},
	})}
	condStore := &fakeConditionStore{catalog: []conditions.Condition{
		{
			ID:            "ATTENDALL",
			Text:          "Attend all appointments with [name]",
			UserInput:     "appointmentName",
			FieldPosition: map[string]int{"appointmentName": 0},
			GroupName:     "Appointments",
		},
	}}
	service := newService(store, condStore)

	rendered, svcErr := service.ConditionsForView("A1235HG")

	require.Nil(t, svcErr)
	require.Len(t, rendered, 2)
	assert.Equal(t, "ATTENDALL", rendered[0].ID)
	assert.True(t, rendered[0].InputRequired)
	assert.Equal(t, "bespoke-0", rendered[1].ID)
	assert.Equal(t, "Bespoke", rendered[1].Group)
}

func TestConditionsForDocumentFlattensText(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"licenceConditions": map[string]interface{}{
			"standard": map[string]interface{}{"additionalConditionsRequired": "Yes"},
			"additional": map[string]interface{}{
				"ATTENDALL": map[string]interface{}{"appointmentName": "Dr Smith"},
			},
		},
	})}
	condStore := &fakeConditionStore{catalog: []conditions.Condition{
		{
			ID:            "ATTENDALL",
			Text:          "Attend all appointments with [name]",
			UserInput:     "appointmentName",
			FieldPosition: map[string]int{"appointmentName": 0},
		},
	}}
	service := newService(store, condStore)

	rendered, svcErr := service.ConditionsForDocument("A1235HG")

	require.Nil(t, svcErr)
	require.Len(t, rendered, 1)
	assert.Equal(t, "Attend all appointments with Dr Smith", rendered[0].Content)
}

func TestDocumentPayloadUnknownTemplate(t *testing.T) {
	service := newService(&fakeStore{record: record(model.Licence{})}, nil)

	_, _, svcErr := service.DocumentPayload("A1235HG", "bogus")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InvalidRequestError.Code, svcErr.Code)
}

func TestDocumentPayloadAssemblesValues(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{
		"curfew": map[string]interface{}{
			"curfewHours": map[string]interface{}{"firstNightFrom": "19:00"},
		},
	})}
	service := newService(store, nil)

	values, missing, svcErr := service.DocumentPayload("A1235HG", "hdc_ap_pss")

	require.Nil(t, svcErr)
	assert.Equal(t, "A1235HG", values["OFF_NOMS"])
	assert.Equal(t, "19:00", values["CURFEW_FIRST_FROM"])
	assert.Contains(t, missing, "Curfew Monday from")
}

func TestRenderDocumentReturnsGeneratedPDF(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{})}
	service := NewLicenceService(store, &fakeConditionStore{}, &fakeGenerator{document: []byte("%PDF-1.4")})

	document, svcErr := service.RenderDocument(context.Background(), "A1235HG", "hdc_ap_pss")

	require.Nil(t, svcErr)
	assert.Equal(t, []byte("%PDF-1.4"), document)
}

func TestRenderDocumentGeneratorFailure(t *testing.T) {
	store := &fakeStore{record: record(model.Licence{})}
	service := NewLicenceService(store, &fakeConditionStore{}, &fakeGenerator{err: errors.New("unreachable")})

	_, svcErr := service.RenderDocument(context.Background(), "A1235HG", "hdc_ap_pss")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.InternalServerError.Code, svcErr.Code)
}
