package licence

import (
	"github.com/gin-gonic/gin"

	"github.com/hmpps/licence-management-api/internal/licence/conditions"
	"github.com/hmpps/licence-management-api/internal/pdf"
	"github.com/hmpps/licence-management-api/internal/system/config"
	"github.com/hmpps/licence-management-api/internal/system/database/provider"
)

// Initialize wires the licence module and registers its routes.
func Initialize(group *gin.RouterGroup) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return err
	}

	service := NewLicenceService(
		NewStore(dbClient),
		conditions.NewStore(dbClient),
		pdf.NewGeneratorClient(config.Get().PDFGenerator),
	)
	handler := NewLicenceHandler(service)

	group.GET("/conditions", handler.ConditionsCatalog)

	group.POST("/licences", handler.CreateLicence)
	group.GET("/licences/:nomisId", handler.GetLicence)
	group.GET("/licences/:nomisId/errors", handler.LicenceErrors)
	group.PUT("/licences/:nomisId/sections/:section/forms/:form", handler.UpdateForm)
	group.PUT("/licences/:nomisId/address", handler.UpdateAddress)
	group.PUT("/licences/:nomisId/conditions", handler.UpdateConditions)
	group.DELETE("/licences/:nomisId/conditions/:conditionId", handler.DeleteCondition)
	group.POST("/licences/:nomisId/handover", handler.MarkForHandover)
	group.GET("/licences/:nomisId/conditions/view", handler.ConditionsForView)
	group.GET("/licences/:nomisId/conditions/document", handler.ConditionsForDocument)
	group.GET("/licences/:nomisId/documents/:template/payload", handler.DocumentPayload)
	group.GET("/licences/:nomisId/documents/:template", handler.RenderDocument)

	return nil
}
