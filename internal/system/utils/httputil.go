package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmpps/licence-management-api/internal/system/error/apierror"
	"github.com/hmpps/licence-management-api/internal/system/error/codes"
	"github.com/hmpps/licence-management-api/internal/system/error/serviceerror"
)

// SendError writes a service error as a JSON error response with the
// appropriate HTTP status.
func SendError(c *gin.Context, svcErr *serviceerror.ServiceError) {
	status := http.StatusInternalServerError
	if svcErr.Type == serviceerror.ClientErrorType {
		switch svcErr.Code {
		case codes.ResourceNotFound, codes.LicenceNotFound, codes.ConditionNotFound:
			status = http.StatusNotFound
		case codes.ConflictError:
			status = http.StatusConflict
		default:
			status = http.StatusBadRequest
		}
	}
	c.AbortWithStatusJSON(status, apierror.NewErrorResponse(svcErr.Code, svcErr.ErrorDescription))
}
