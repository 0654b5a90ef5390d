package validator

import (
	"regexp"
	"strconv"
	"time"
)

// Messages reported against failing fields.
const (
	MsgNotAnswered     = "Not answered"
	MsgInvalidDate     = "Invalid or incorrectly formatted date"
	MsgDateInPast      = "Invalid date - must not be in the past"
	MsgInvalidTime     = "Invalid time"
	MsgNumberRequired  = "Invalid entry - number required"
	MsgInvalidPostcode = "Invalid postcode"
	MsgAgeBelowMinimum = "Invalid age - must be 0 or above"
	MsgAgeAboveMaximum = "Invalid age - must be 110 or below"
)

const (
	dateLayout = "02/01/2006"
	ageMinimum = 0
	ageMaximum = 110
)

var (
	datePattern     = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	timePattern     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	phonePattern    = regexp.MustCompile(`^[0-9+\s]+$`)
	postcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}$`)
	numberPattern   = regexp.MustCompile(`^-?\d+$`)
)

// FieldType constrains the shape of a single answer.
type FieldType int

const (
	TypeText FieldType = iota
	TypeYesNo
	TypeDate
	TypeTime
	TypePhone
	TypePostcode
	TypeAge
	TypeSelection
)

// Requirement states whether an answer must, may, or must not be given.
type Requirement int

const (
	Optional Requirement = iota
	Required
	MustBeBlank
)

// When makes a field's requirement conditional on a sibling answer.
type When struct {
	Field     string
	Equals    string
	Then      Requirement
	Otherwise Requirement
}

// Rule validates one field of a form. Exactly one of Fields, Items, or
// the scalar Type applies.
type Rule struct {
	Type    FieldType
	Require Requirement
	When    *When

	// Fields validates a nested object.
	Fields RuleSet
	// Items validates each entry of a list of objects.
	Items RuleSet
}

// RuleSet maps field names to their rules at one nesting level.
type RuleSet map[string]Rule

// requirement resolves the effective requirement given the sibling
// answers at the same level.
func (r Rule) requirement(siblings map[string]interface{}) Requirement {
	if r.When == nil {
		return r.Require
	}
	controlling, _ := siblings[r.When.Field].(string)
	if controlling == r.When.Equals {
		return r.When.Then
	}
	return r.When.Otherwise
}

// checkScalar validates a present, non-empty scalar answer against the
// field type. It returns "" when the value is acceptable.
func (r Rule) checkScalar(value interface{}) string {
	s, ok := value.(string)
	if !ok {
		return MsgNotAnswered
	}

	switch r.Type {
	case TypeYesNo:
		if s != "Yes" && s != "No" {
			return MsgNotAnswered
		}
	case TypeDate:
		return checkDate(s)
	case TypeTime:
		if !timePattern.MatchString(s) {
			return MsgInvalidTime
		}
	case TypePhone:
		if !phonePattern.MatchString(s) {
			return MsgNumberRequired
		}
	case TypePostcode:
		if !postcodePattern.MatchString(s) {
			return MsgInvalidPostcode
		}
	case TypeAge:
		return checkAge(s)
	}
	return ""
}

func checkDate(s string) string {
	if !datePattern.MatchString(s) {
		return MsgInvalidDate
	}
	parsed, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return MsgInvalidDate
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today) {
		return MsgDateInPast
	}
	return ""
}

func checkAge(s string) string {
	if !numberPattern.MatchString(s) {
		return MsgNumberRequired
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return MsgNumberRequired
	}
	if age < ageMinimum {
		return MsgAgeBelowMinimum
	}
	if age > ageMaximum {
		return MsgAgeAboveMaximum
	}
	return ""
}
