// Package codes defines error codes for the Licence Management Service.
package codes

const (
	// General errors
	InternalServerError = "LSE-5000"
	DatabaseError       = "LSE-5001"
	InvalidRequest      = "LCE-4000"
	ValidationError     = "LCE-4001"
	ResourceNotFound    = "LCE-4004"
	ConflictError       = "LCE-4009"

	// Licence-specific errors
	LicenceNotFound       = "LCE-4040"
	LicenceCreationFailed = "LSE-5010"
	LicenceUpdateFailed   = "LSE-5011"
	LicenceStageInvalid   = "LCE-4041"
	SectionUnknown        = "LCE-4042"
	FormUnknown           = "LCE-4043"
	AddressIndexInvalid   = "LCE-4044"

	// Condition-specific errors
	ConditionNotFound     = "LCE-4050"
	ConditionUpdateFailed = "LSE-5020"
	ConditionDeleteFailed = "LSE-5021"

	// Document rendering errors
	DocumentTemplateUnknown = "LCE-4060"
	DocumentRenderFailed    = "LSE-5030"
)
