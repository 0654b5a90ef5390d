// Package router assembles the HTTP surface of the service.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmpps/licence-management-api/internal/licence"
	"github.com/hmpps/licence-management-api/internal/system/config"
	"github.com/hmpps/licence-management-api/internal/system/constants"
	"github.com/hmpps/licence-management-api/internal/system/database"
	"github.com/hmpps/licence-management-api/internal/system/middleware"
)

// SetupRouter builds the gin engine with the system middleware and all
// module routes registered.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CorrelationID())
	engine.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	engine.GET("/health", healthCheck)

	api := engine.Group(constants.APIBasePath)
	if err := licence.Initialize(api); err != nil {
		return nil, err
	}

	return engine, nil
}

func healthCheck(c *gin.Context) {
	if err := database.GetInstance().HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
