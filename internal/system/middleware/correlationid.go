package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hmpps/licence-management-api/internal/system/constants"
)

const CorrelationIDContextKey = "correlationID"

// CorrelationID attaches a correlation identifier to every request,
// generating one when the caller does not supply it.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(constants.CorrelationIDHeaderName)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(CorrelationIDContextKey, correlationID)
		c.Writer.Header().Set(constants.CorrelationIDHeaderName, correlationID)
		c.Next()
	}
}
