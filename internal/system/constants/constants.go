package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	UsernameHeaderName      = "X-Username"
	ContentTypeJSON         = "application/json"
	ContentTypePDF          = "application/pdf"

	APIBasePath = "/api/v1"
)
