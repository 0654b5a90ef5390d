// Package pdf assembles the placeholder values for licence documents
// and talks to the external PDF generator.
package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder declares where in the case data one document value comes
// from. Multi-path placeholders join their non-empty parts with the
// separator.
type Placeholder struct {
	Paths       [][]string
	Separator   string
	DisplayName string
}

func curfewHour(field string) []string {
	return []string{"licence", "curfew", "curfewHours", field}
}

func reporting(field string) []string {
	return []string{"licence", "reporting", "reportingInstructions", field}
}

var templates = map[string]map[string]Placeholder{
	"hdc_ap_pss": {
		"EST_PREMISE": {Paths: [][]string{{"establishment", "premise"}}, DisplayName: "Prison name"},
		"EST_PHONE":   {Paths: [][]string{{"establishment", "phones", "0", "number"}}, DisplayName: "Prison telephone number"},
		"OFF_NAME": {
			Paths: [][]string{
				{"prisonerInfo", "firstName"},
				{"prisonerInfo", "middleName"},
				{"prisonerInfo", "lastName"},
			},
			Separator:   " ",
			DisplayName: "Offender name",
		},
		"OFF_DOB":     {Paths: [][]string{{"prisonerInfo", "dateOfBirth"}}, DisplayName: "Offender date of birth"},
		"OFF_PHOTO":   {Paths: [][]string{{"photo"}}, DisplayName: "Offender photograph"},
		"OFF_BOOKING": {Paths: [][]string{{"prisonerInfo", "bookingId"}}, DisplayName: "Offender booking ID"},
		"OFF_NOMS":    {Paths: [][]string{{"nomisId"}}, DisplayName: "Offender Noms ID"},
		"OFF_CRO":     {Paths: [][]string{{"prisonerInfo", "CRO"}}, DisplayName: "Offender CRO"},
		"OFF_PNC":     {Paths: [][]string{{"prisonerInfo", "PNC"}}, DisplayName: "Offender PNC"},

		"SENT_HDCAD": {Paths: [][]string{{"prisonerInfo", "sentenceDetail", "homeDetentionCurfewActualDate"}}, DisplayName: "HDCAD"},
		"SENT_CRD":   {Paths: [][]string{{"prisonerInfo", "sentenceDetail", "releaseDate"}}, DisplayName: "CRD"},
		"SENT_LED":   {Paths: [][]string{{"prisonerInfo", "sentenceDetail", "licenceExpiryDate"}}, DisplayName: "LED"},
		"SENT_SED":   {Paths: [][]string{{"prisonerInfo", "sentenceDetail", "sentenceExpiryDate"}}, DisplayName: "SED"},
		"SENT_TUSED": {Paths: [][]string{{"prisonerInfo", "sentenceDetail", "topupSupervisionExpiryDate"}}, DisplayName: "TUSED"},

		"REPORTING_NAME": {Paths: [][]string{reporting("name")}, DisplayName: "Reporting name"},
		"REPORTING_ADDRESS": {
			Paths: [][]string{
				reporting("buildingAndStreet1"),
				reporting("buildingAndStreet2"),
				reporting("townOrCity"),
				reporting("postcode"),
			},
			Separator:   "\n",
			DisplayName: "Reporting address",
		},

		"CURFEW_ADDRESS": {
			Paths: [][]string{
				{"licence", "proposedAddress", "curfewAddress", "addresses", "0", "addressLine1"},
				{"licence", "proposedAddress", "curfewAddress", "addresses", "0", "addressLine2"},
				{"licence", "proposedAddress", "curfewAddress", "addresses", "0", "addressTown"},
				{"licence", "proposedAddress", "curfewAddress", "addresses", "0", "postCode"},
			},
			Separator:   "\n",
			DisplayName: "Curfew address",
		},

		"CURFEW_FIRST_FROM":  {Paths: [][]string{curfewHour("firstNightFrom")}, DisplayName: "Curfew first night from"},
		"CURFEW_FIRST_UNTIL": {Paths: [][]string{curfewHour("firstNightUntil")}, DisplayName: "Curfew first night until"},
		"CURFEW_MON_FROM":    {Paths: [][]string{curfewHour("mondayFrom")}, DisplayName: "Curfew Monday from"},
		"CURFEW_MON_UNTIL":   {Paths: [][]string{curfewHour("mondayUntil")}, DisplayName: "Curfew Monday until"},
		"CURFEW_TUE_FROM":    {Paths: [][]string{curfewHour("tuesdayFrom")}, DisplayName: "Curfew Tuesday from"},
		"CURFEW_TUE_UNTIL":   {Paths: [][]string{curfewHour("tuesdayUntil")}, DisplayName: "Curfew Tuesday until"},
		"CURFEW_WED_FROM":    {Paths: [][]string{curfewHour("wednesdayFrom")}, DisplayName: "Curfew Wednesday from"},
		"CURFEW_WED_UNTIL":   {Paths: [][]string{curfewHour("wednesdayUntil")}, DisplayName: "Curfew Wednesday until"},
		"CURFEW_THU_FROM":    {Paths: [][]string{curfewHour("thursdayFrom")}, DisplayName: "Curfew Thursday from"},
		"CURFEW_THU_UNTIL":   {Paths: [][]string{curfewHour("thursdayUntil")}, DisplayName: "Curfew Thursday until"},
		"CURFEW_FRI_FROM":    {Paths: [][]string{curfewHour("fridayFrom")}, DisplayName: "Curfew Friday from"},
		"CURFEW_FRI_UNTIL":   {Paths: [][]string{curfewHour("fridayUntil")}, DisplayName: "Curfew Friday until"},
		"CURFEW_SAT_FROM":    {Paths: [][]string{curfewHour("saturdayFrom")}, DisplayName: "Curfew Saturday from"},
		"CURFEW_SAT_UNTIL":   {Paths: [][]string{curfewHour("saturdayUntil")}, DisplayName: "Curfew Saturday until"},
		"CURFEW_SUN_FROM":    {Paths: [][]string{curfewHour("sundayFrom")}, DisplayName: "Curfew Sunday from"},
		"CURFEW_SUN_UNTIL":   {Paths: [][]string{curfewHour("sundayUntil")}, DisplayName: "Curfew Sunday until"},

		"MONITOR":    {Paths: [][]string{{"licence", "monitoring", "telephone"}}, DisplayName: "Monitoring company telephone number"},
		"CONDITIONS": {Paths: [][]string{{"conditions"}}, DisplayName: "Additional conditions"},
	},
}

// Assemble resolves every placeholder of the template against the case
// data. Placeholders with no value are returned separately, named for
// display, so callers can warn before generating an incomplete
// document.
func Assemble(template string, data map[string]interface{}) (map[string]string, []string, error) {
	table, ok := templates[template]
	if !ok {
		return nil, nil, fmt.Errorf("unknown document template %q", template)
	}

	values := make(map[string]string, len(table))
	var missing []string
	for key, placeholder := range table {
		value := resolvePlaceholder(placeholder, data)
		values[key] = value
		if value == "" {
			missing = append(missing, placeholder.DisplayName)
		}
	}
	return values, missing, nil
}

// TemplateKnown reports whether a template name is configured.
func TemplateKnown(template string) bool {
	_, ok := templates[template]
	return ok
}

func resolvePlaceholder(placeholder Placeholder, data map[string]interface{}) string {
	parts := make([]string, 0, len(placeholder.Paths))
	for _, path := range placeholder.Paths {
		if value := valueAt(data, path); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, placeholder.Separator)
}

// valueAt walks the case data along the path. Numeric segments index
// into lists.
func valueAt(data map[string]interface{}, path []string) string {
	var current interface{} = data
	for _, segment := range path {
		switch node := current.(type) {
		case map[string]interface{}:
			current = node[segment]
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return ""
			}
			current = node[index]
		default:
			return ""
		}
	}
	s, _ := current.(string)
	return s
}
