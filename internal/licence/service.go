package licence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hmpps/licence-management-api/internal/formconfig"
	"github.com/hmpps/licence-management-api/internal/licence/conditions"
	"github.com/hmpps/licence-management-api/internal/licence/fieldmap"
	"github.com/hmpps/licence-management-api/internal/licence/model"
	"github.com/hmpps/licence-management-api/internal/licence/validator"
	"github.com/hmpps/licence-management-api/internal/pdf"
	"github.com/hmpps/licence-management-api/internal/system/error/serviceerror"
	"github.com/hmpps/licence-management-api/internal/system/log"
	"github.com/hmpps/licence-management-api/internal/system/utils"
)

// reviewSections are validated when a caller does not name specific
// sections. Final checks and approval are validated separately at their
// own workflow stages.
var reviewSections = []string{
	model.SectionEligibility,
	model.SectionProposedAddress,
	model.SectionCurfew,
	model.SectionRisk,
	model.SectionReporting,
	model.SectionLicenceConditions,
}

// handover maps sender and receiver roles to the resulting stage.
var handoverStages = map[string]string{
	model.RoleCA + ">" + model.RoleRO: model.StageProcessingRO,
	model.RoleCA + ">" + model.RoleDM: model.StageApproval,
	model.RoleDM + ">" + model.RoleCA: model.StageDecided,
}

const bespokeIDPrefix = "bespoke-"

// LicenceServiceInterface is the application surface for licence case
// management.
type LicenceServiceInterface interface {
	GetLicence(nomisID string) (*model.CaseRecord, *serviceerror.ServiceError)
	CreateLicence(nomisID string, licence model.Licence) (int64, *serviceerror.ServiceError)
	UpdateForm(nomisID, section, form string, input map[string]interface{}) (model.Licence, string, *serviceerror.ServiceError)
	UpdateAddress(nomisID string, index int, input map[string]interface{}) (model.Licence, *serviceerror.ServiceError)
	UpdateConditions(nomisID string, selectedIDs []string, input map[string]interface{}, bespoke []conditions.Bespoke) (map[string]interface{}, *serviceerror.ServiceError)
	DeleteCondition(nomisID, conditionID string) *serviceerror.ServiceError
	MarkForHandover(nomisID, sender, receiver string) (string, *serviceerror.ServiceError)
	LicenceErrors(nomisID string, sections []string) (model.ErrorTree, *serviceerror.ServiceError)
	ConditionsForView(nomisID string) ([]conditions.ViewCondition, *serviceerror.ServiceError)
	ConditionsForDocument(nomisID string) ([]conditions.DocumentCondition, *serviceerror.ServiceError)
	ConditionsCatalog() ([]conditions.Condition, *serviceerror.ServiceError)
	DocumentPayload(nomisID, template string) (map[string]string, []string, *serviceerror.ServiceError)
	RenderDocument(ctx context.Context, nomisID, template string) ([]byte, *serviceerror.ServiceError)
}

// LicenceService implements LicenceServiceInterface over the licence
// store, the condition catalog, and the PDF generator.
type LicenceService struct {
	store          StoreInterface
	conditionStore conditions.StoreInterface
	generator      pdf.GeneratorClientInterface
}

func NewLicenceService(store StoreInterface, conditionStore conditions.StoreInterface,
	generator pdf.GeneratorClientInterface) LicenceServiceInterface {
	return &LicenceService{
		store:          store,
		conditionStore: conditionStore,
		generator:      generator,
	}
}

func (s *LicenceService) logger() *log.Logger {
	return log.GetLogger().With(log.String(log.LoggerKeyComponentName, "LicenceService"))
}

func (s *LicenceService) GetLicence(nomisID string) (*model.CaseRecord, *serviceerror.ServiceError) {
	record, err := s.store.GetLicence(nomisID)
	if err != nil {
		s.logger().Error("Failed to load licence", err, log.String("nomisID", nomisID))
		return nil, &serviceerror.DatabaseError
	}
	if record == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("No licence found for offender %s", nomisID))
	}
	return record, nil
}

// CreateLicence starts a new case. A second create for the same
// offender is a conflict.
func (s *LicenceService) CreateLicence(nomisID string, licence model.Licence) (int64, *serviceerror.ServiceError) {
	existing, err := s.store.GetLicence(nomisID)
	if err != nil {
		s.logger().Error("Failed to check for existing licence", err, log.String("nomisID", nomisID))
		return 0, &serviceerror.DatabaseError
	}
	if existing != nil {
		return 0, serviceerror.CustomServiceError(serviceerror.ConflictError,
			fmt.Sprintf("A licence already exists for offender %s", nomisID))
	}

	if licence == nil {
		licence = model.Licence{}
	}

	id, err := s.store.CreateLicence(nomisID, licence, model.StageStarted)
	if err != nil {
		s.logger().Error("Failed to create licence", err, log.String("nomisID", nomisID))
		return 0, &serviceerror.DatabaseError
	}

	s.logger().Info("Licence created", log.String("nomisID", nomisID))
	return id, nil
}

// UpdateForm interprets the submission against the form's field map,
// replaces the form's answers within the licence document, persists the
// result, and reports the next page.
func (s *LicenceService) UpdateForm(nomisID, section, form string,
	input map[string]interface{}) (model.Licence, string, *serviceerror.ServiceError) {

	cfg, known := formconfig.Lookup(section, form)
	if !known {
		return nil, "", serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("Unknown form %s/%s", section, form))
	}

	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, "", svcErr
	}

	answers := fieldmap.Interpret(cfg.Fields, input)

	updated := record.Licence.DeepCopy()
	sectionContent, ok := updated[section].(map[string]interface{})
	if !ok {
		sectionContent = map[string]interface{}{}
	}
	sectionContent[form] = answers
	updated[section] = sectionContent

	if err := s.store.UpdateLicence(nomisID, updated); err != nil {
		s.logger().Error("Failed to persist form update", err,
			log.String("nomisID", nomisID), log.String("section", section), log.String("form", form))
		return nil, "", &serviceerror.DatabaseError
	}

	return updated, cfg.NextPath.Resolve(input), nil
}

// UpdateAddress merges the interpreted submission into one entry of the
// proposed address list. Answers the field map drops never reach the
// stored address; fields absent from the submission keep their stored
// values.
func (s *LicenceService) UpdateAddress(nomisID string, index int,
	input map[string]interface{}) (model.Licence, *serviceerror.ServiceError) {

	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, svcErr
	}

	updated := record.Licence.DeepCopy()
	addresses, _ := utils.GetIn(updated,
		model.SectionProposedAddress, "curfewAddress", "addresses").([]interface{})
	if index < 0 || index >= len(addresses) {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("No proposed address at index %d", index))
	}

	answers := fieldmap.Interpret(formconfig.AddressFields(), input)

	address, ok := addresses[index].(map[string]interface{})
	if !ok {
		address = map[string]interface{}{}
	}
	for field, value := range answers {
		address[field] = value
	}
	addresses[index] = address

	if err := s.store.UpdateLicence(nomisID, updated); err != nil {
		s.logger().Error("Failed to persist address update", err, log.String("nomisID", nomisID))
		return nil, &serviceerror.DatabaseError
	}

	return updated, nil
}

// UpdateConditions rebuilds the additional conditions from the selected
// catalog entries and the submitted inputs, keeping the stored standard
// answers and replacing the bespoke list.
func (s *LicenceService) UpdateConditions(nomisID string, selectedIDs []string,
	input map[string]interface{}, bespoke []conditions.Bespoke) (map[string]interface{}, *serviceerror.ServiceError) {

	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, svcErr
	}

	selected, err := s.conditionStore.GetByIDs(selectedIDs)
	if err != nil {
		s.logger().Error("Failed to load condition catalog", err, log.String("nomisID", nomisID))
		return nil, &serviceerror.DatabaseError
	}

	content := map[string]interface{}{
		"additional": conditions.BuildInputs(selected, input),
		"bespoke":    bespokeToDocument(bespoke),
	}
	if standard := utils.GetIn(record.Licence, model.SectionLicenceConditions, "standard"); standard != nil {
		content["standard"] = standard
	}

	if err := s.store.UpdateSection(model.SectionLicenceConditions, nomisID, content); err != nil {
		s.logger().Error("Failed to persist conditions", err, log.String("nomisID", nomisID))
		return nil, &serviceerror.DatabaseError
	}

	return content, nil
}

// DeleteCondition removes one condition, addressing bespoke entries as
// "bespoke-<index>" and additional conditions by catalog id.
func (s *LicenceService) DeleteCondition(nomisID, conditionID string) *serviceerror.ServiceError {
	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return svcErr
	}

	updated := record.Licence.DeepCopy()
	content, ok := updated[model.SectionLicenceConditions].(map[string]interface{})
	if !ok {
		return serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("No condition %s on licence for offender %s", conditionID, nomisID))
	}

	if strings.HasPrefix(conditionID, bespokeIDPrefix) {
		index, err := strconv.Atoi(strings.TrimPrefix(conditionID, bespokeIDPrefix))
		bespoke, isList := content["bespoke"].([]interface{})
		if err != nil || !isList || index < 0 || index >= len(bespoke) {
			return serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
				fmt.Sprintf("No condition %s on licence for offender %s", conditionID, nomisID))
		}
		content["bespoke"] = append(bespoke[:index], bespoke[index+1:]...)
	} else {
		additional, isMap := content["additional"].(map[string]interface{})
		if !isMap {
			return serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
				fmt.Sprintf("No condition %s on licence for offender %s", conditionID, nomisID))
		}
		if _, present := additional[conditionID]; !present {
			return serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
				fmt.Sprintf("No condition %s on licence for offender %s", conditionID, nomisID))
		}
		delete(additional, conditionID)
	}

	if err := s.store.UpdateSection(model.SectionLicenceConditions, nomisID, content); err != nil {
		s.logger().Error("Failed to persist condition removal", err, log.String("nomisID", nomisID))
		return &serviceerror.DatabaseError
	}
	return nil
}

// MarkForHandover moves the case to the stage implied by the sender and
// receiver roles. A responsible officer returning an opted-out case
// sends it back to eligibility.
func (s *LicenceService) MarkForHandover(nomisID, sender, receiver string) (string, *serviceerror.ServiceError) {
	stage, known := handoverStages[sender+">"+receiver]

	if !known && sender == model.RoleRO && receiver == model.RoleCA {
		record, svcErr := s.GetLicence(nomisID)
		if svcErr != nil {
			return "", svcErr
		}
		if utils.GetString(record.Licence, model.SectionProposedAddress, "optOut", "decision") == "Yes" {
			stage = model.StageEligibility
		} else {
			stage = model.StageProcessingCA
		}
		known = true
	}

	if !known {
		return "", serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("No handover from %s to %s", sender, receiver))
	}

	if err := s.store.UpdateStage(nomisID, stage); err != nil {
		s.logger().Error("Failed to update stage", err,
			log.String("nomisID", nomisID), log.String("stage", stage))
		return "", &serviceerror.DatabaseError
	}

	s.logger().Info("Licence handed over", log.String("nomisID", nomisID), log.String("stage", stage))
	return stage, nil
}

// LicenceErrors validates the named sections of the stored licence,
// defaulting to the review sections.
func (s *LicenceService) LicenceErrors(nomisID string, sections []string) (model.ErrorTree, *serviceerror.ServiceError) {
	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, svcErr
	}

	if len(sections) == 0 {
		sections = reviewSections
	}

	tree, err := validator.LicenceErrors(record.Licence, sections)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	}
	return tree, nil
}

func (s *LicenceService) ConditionsForView(nomisID string) ([]conditions.ViewCondition, *serviceerror.ServiceError) {
	additional, bespoke, catalog, inputErrors, svcErr := s.conditionContext(nomisID)
	if svcErr != nil {
		return nil, svcErr
	}
	return conditions.PopulateForView(additional, bespoke, catalog, inputErrors), nil
}

func (s *LicenceService) ConditionsForDocument(nomisID string) ([]conditions.DocumentCondition, *serviceerror.ServiceError) {
	additional, bespoke, catalog, _, svcErr := s.conditionContext(nomisID)
	if svcErr != nil {
		return nil, svcErr
	}
	return conditions.PopulateForDocument(additional, bespoke, catalog, nil), nil
}

func (s *LicenceService) ConditionsCatalog() ([]conditions.Condition, *serviceerror.ServiceError) {
	catalog, err := s.conditionStore.GetActive()
	if err != nil {
		s.logger().Error("Failed to load condition catalog", err)
		return nil, &serviceerror.DatabaseError
	}
	return catalog, nil
}

// DocumentPayload assembles the placeholder values for a document
// template from the stored case, reporting unanswered placeholders by
// display name.
func (s *LicenceService) DocumentPayload(nomisID, template string) (map[string]string, []string, *serviceerror.ServiceError) {
	if !pdf.TemplateKnown(template) {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("Unknown document template %s", template))
	}

	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, nil, svcErr
	}

	rendered, svcErr := s.ConditionsForDocument(nomisID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	conditionTexts := make([]string, 0, len(rendered))
	for _, c := range rendered {
		conditionTexts = append(conditionTexts, c.Content)
	}

	data := map[string]interface{}{
		"nomisId":    nomisID,
		"licence":    map[string]interface{}(record.Licence),
		"conditions": strings.Join(conditionTexts, "\n"),
	}

	values, missing, err := pdf.Assemble(template, data)
	if err != nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	}
	sort.Strings(missing)
	return values, missing, nil
}

// RenderDocument assembles the template payload and sends it to the PDF
// generator.
func (s *LicenceService) RenderDocument(ctx context.Context, nomisID, template string) ([]byte, *serviceerror.ServiceError) {
	values, _, svcErr := s.DocumentPayload(nomisID, template)
	if svcErr != nil {
		return nil, svcErr
	}

	document, err := s.generator.Generate(ctx, template, values)
	if err != nil {
		s.logger().Error("Failed to generate document", err,
			log.String("nomisID", nomisID), log.String("template", template))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError,
			"Document generation failed")
	}
	return document, nil
}

// conditionContext loads everything condition rendering needs: the
// stored answers, the bespoke list, the catalog entries for the
// selected ids, and the current validation errors for the additional
// form.
func (s *LicenceService) conditionContext(nomisID string) (map[string]interface{}, []conditions.Bespoke,
	[]conditions.Condition, map[string]interface{}, *serviceerror.ServiceError) {

	record, svcErr := s.GetLicence(nomisID)
	if svcErr != nil {
		return nil, nil, nil, nil, svcErr
	}

	additional, _ := utils.GetIn(record.Licence, model.SectionLicenceConditions, "additional").(map[string]interface{})
	bespoke := bespokeFromDocument(utils.GetIn(record.Licence, model.SectionLicenceConditions, "bespoke"))

	ids := make([]string, 0, len(additional))
	for id := range additional {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	catalog, err := s.conditionStore.GetByIDs(ids)
	if err != nil {
		s.logger().Error("Failed to load condition catalog", err, log.String("nomisID", nomisID))
		return nil, nil, nil, nil, &serviceerror.DatabaseError
	}

	tree, verr := validator.LicenceErrors(record.Licence, []string{model.SectionLicenceConditions})
	if verr != nil {
		return nil, nil, nil, nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, verr.Error())
	}
	inputErrors, _ := utils.GetIn(tree, model.SectionLicenceConditions, "additional").(map[string]interface{})

	return additional, bespoke, catalog, inputErrors, nil
}

func bespokeToDocument(bespoke []conditions.Bespoke) []interface{} {
	out := make([]interface{}, 0, len(bespoke))
	for _, b := range bespoke {
		out = append(out, map[string]interface{}{
			"text":     b.Text,
			"approved": b.Approved,
		})
	}
	return out
}

func bespokeFromDocument(value interface{}) []conditions.Bespoke {
	items, _ := value.([]interface{})
	out := make([]conditions.Bespoke, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		out = append(out, conditions.Bespoke{
			Text:     getStringValue(m, "text"),
			Approved: getStringValue(m, "approved"),
		})
	}
	return out
}

func getStringValue(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
