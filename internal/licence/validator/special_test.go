package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func occupierError(field, message string) FieldError {
	return FieldError{
		Path:    []string{"proposedAddress", "curfewAddress", "occupier", field},
		Message: message,
	}
}

func TestApplyExceptionsRemovesFullySkippedGroup(t *testing.T) {
	errs := []FieldError{
		occupierError("name", "Not answered"),
		occupierError("relationship", "Not answered"),
		{Path: []string{"proposedAddress", "curfewAddress", "telephone"}, Message: "Not answered"},
	}

	filtered := ApplyExceptions(errs)

	assert.Equal(t, []FieldError{
		{Path: []string{"proposedAddress", "curfewAddress", "telephone"}, Message: "Not answered"},
	}, filtered)
}

func TestApplyExceptionsKeepsPartiallyAnsweredGroup(t *testing.T) {
	errs := []FieldError{
		occupierError("name", "Not answered"),
	}

	filtered := ApplyExceptions(errs)

	assert.Equal(t, []FieldError{
		occupierError("name", "Not answered"),
	}, filtered)
}

func TestApplyExceptionsIgnoresNonDefaultMessages(t *testing.T) {
	errs := []FieldError{
		occupierError("name", "Not answered"),
		occupierError("relationship", "Invalid entry - number required"),
	}

	filtered := ApplyExceptions(errs)

	assert.Len(t, filtered, 2)
}

func TestApplyExceptionsPassesThroughUnrelatedErrors(t *testing.T) {
	errs := []FieldError{
		{Path: []string{"eligibility", "excluded", "decision"}, Message: "Not answered"},
	}

	filtered := ApplyExceptions(errs)

	assert.Equal(t, errs, filtered)
}
