package licence

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmpps/licence-management-api/internal/licence/conditions"
	"github.com/hmpps/licence-management-api/internal/licence/model"
	"github.com/hmpps/licence-management-api/internal/system/constants"
	"github.com/hmpps/licence-management-api/internal/system/error/serviceerror"
	"github.com/hmpps/licence-management-api/internal/system/utils"
)

type LicenceHandler struct {
	service LicenceServiceInterface
}

func NewLicenceHandler(service LicenceServiceInterface) *LicenceHandler {
	return &LicenceHandler{service: service}
}

type createLicenceRequest struct {
	NomisID string        `json:"nomisId" binding:"required"`
	Licence model.Licence `json:"licence"`
}

type updateFormRequest struct {
	Input map[string]interface{} `json:"input" binding:"required"`
}

type updateAddressRequest struct {
	Index *int                   `json:"index" binding:"required"`
	Input map[string]interface{} `json:"input" binding:"required"`
}

type updateConditionsRequest struct {
	AdditionalConditions []string               `json:"additionalConditions"`
	Input                map[string]interface{} `json:"input"`
	Bespoke              []conditions.Bespoke   `json:"bespoke"`
}

type handoverRequest struct {
	Sender   string `json:"sender" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
}

type caseResponse struct {
	NomisID string        `json:"nomisId"`
	Stage   string        `json:"stage"`
	Version int           `json:"version"`
	Licence model.Licence `json:"licence"`
}

func (h *LicenceHandler) CreateLicence(c *gin.Context) {
	var req createLicenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	id, svcErr := h.service.CreateLicence(req.NomisID, req.Licence)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"nomisId": req.NomisID,
		"stage":   model.StageStarted,
	})
}

func (h *LicenceHandler) GetLicence(c *gin.Context) {
	record, svcErr := h.service.GetLicence(c.Param("nomisId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, caseResponse{
		NomisID: record.NomisID,
		Stage:   record.Stage,
		Version: record.Version,
		Licence: record.Licence,
	})
}

func (h *LicenceHandler) UpdateForm(c *gin.Context) {
	var req updateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	updated, nextPath, svcErr := h.service.UpdateForm(
		c.Param("nomisId"), c.Param("section"), c.Param("form"), req.Input)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"licence":  updated,
		"nextPath": nextPath,
	})
}

func (h *LicenceHandler) UpdateAddress(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	updated, svcErr := h.service.UpdateAddress(c.Param("nomisId"), *req.Index, req.Input)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"licence": updated})
}

func (h *LicenceHandler) UpdateConditions(c *gin.Context) {
	var req updateConditionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	content, svcErr := h.service.UpdateConditions(
		c.Param("nomisId"), req.AdditionalConditions, req.Input, req.Bespoke)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"licenceConditions": content})
}

func (h *LicenceHandler) DeleteCondition(c *gin.Context) {
	if svcErr := h.service.DeleteCondition(c.Param("nomisId"), c.Param("conditionId")); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LicenceHandler) MarkForHandover(c *gin.Context) {
	var req handoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	stage, svcErr := h.service.MarkForHandover(c.Param("nomisId"), req.Sender, req.Receiver)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stage": stage})
}

func (h *LicenceHandler) LicenceErrors(c *gin.Context) {
	var sections []string
	if raw := c.Query("sections"); raw != "" {
		sections = strings.Split(raw, ",")
	}

	tree, svcErr := h.service.LicenceErrors(c.Param("nomisId"), sections)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"errors": tree})
}

func (h *LicenceHandler) ConditionsForView(c *gin.Context) {
	rendered, svcErr := h.service.ConditionsForView(c.Param("nomisId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": rendered})
}

func (h *LicenceHandler) ConditionsForDocument(c *gin.Context) {
	rendered, svcErr := h.service.ConditionsForDocument(c.Param("nomisId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": rendered})
}

func (h *LicenceHandler) ConditionsCatalog(c *gin.Context) {
	catalog, svcErr := h.service.ConditionsCatalog()
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": catalog})
}

func (h *LicenceHandler) DocumentPayload(c *gin.Context) {
	values, missing, svcErr := h.service.DocumentPayload(c.Param("nomisId"), c.Param("template"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"values":  values,
		"missing": missing,
	})
}

func (h *LicenceHandler) RenderDocument(c *gin.Context) {
	document, svcErr := h.service.RenderDocument(
		c.Request.Context(), c.Param("nomisId"), c.Param("template"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Data(http.StatusOK, constants.ContentTypePDF, document)
}
