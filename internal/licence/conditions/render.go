package conditions

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hmpps/licence-management-api/internal/system/utils"
)

const bespokeGroup = "Bespoke"

var placeholderPattern = regexp.MustCompile(`\[[^\]]*]`)

// PopulateForView renders the selected additional conditions followed by
// the bespoke conditions, keeping answers and errors as separate content
// units for form display. The additional map is keyed by condition id;
// inputErrors carries field messages per condition id.
func PopulateForView(additional map[string]interface{}, bespoke []Bespoke,
	catalog []Condition, inputErrors map[string]interface{}) []ViewCondition {

	var out []ViewCondition
	for _, cond := range orderSelected(additional, catalog) {
		input, _ := additional[cond.ID].(map[string]interface{})
		errs, _ := inputErrors[cond.ID].(map[string]interface{})
		out = append(out, ViewCondition{
			ID:            cond.ID,
			Group:         cond.GroupName,
			Subgroup:      cond.SubgroupName,
			InputRequired: cond.InputRequired(),
			Content:       renderParts(cond, input, errs),
		})
	}

	for i, b := range bespoke {
		out = append(out, ViewCondition{
			ID:       fmt.Sprintf("bespoke-%d", i),
			Group:    bespokeGroup,
			Approved: b.Approved,
			Content:  []ContentPart{textPart(b.Text)},
		})
	}

	return out
}

// PopulateForDocument renders the selected additional conditions and the
// bespoke conditions to flat text for the licence document. Error
// messages, when supplied, appear inline in brackets.
func PopulateForDocument(additional map[string]interface{}, bespoke []Bespoke,
	catalog []Condition, inputErrors map[string]interface{}) []DocumentCondition {

	var out []DocumentCondition
	for _, cond := range orderSelected(additional, catalog) {
		input, _ := additional[cond.ID].(map[string]interface{})
		errs, _ := inputErrors[cond.ID].(map[string]interface{})
		out = append(out, DocumentCondition{
			ID:       cond.ID,
			Group:    cond.GroupName,
			Subgroup: cond.SubgroupName,
			Content:  renderText(cond, input, errs),
		})
	}

	for i, b := range bespoke {
		out = append(out, DocumentCondition{
			ID:       fmt.Sprintf("bespoke-%d", i),
			Group:    bespokeGroup,
			Approved: b.Approved,
			Content:  b.Text,
		})
	}

	return out
}

// orderSelected resolves the selected condition ids against the catalog,
// preserving catalog display order. Ids with no catalog entry are
// dropped.
func orderSelected(additional map[string]interface{}, catalog []Condition) []Condition {
	byID := make(map[string]Condition, len(catalog))
	order := make(map[string]int, len(catalog))
	for i, cond := range catalog {
		byID[cond.ID] = cond
		order[cond.ID] = i
	}

	ids := make([]string, 0, len(additional))
	for id := range additional {
		if _, known := byID[id]; known {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })

	selected := make([]Condition, 0, len(ids))
	for _, id := range ids {
		selected = append(selected, byID[id])
	}
	return selected
}

func renderParts(cond Condition, input, errs map[string]interface{}) []ContentPart {
	if !cond.InputRequired() {
		return []ContentPart{textPart(cond.Text)}
	}
	if group, ok := multiFields[cond.UserInput]; ok {
		return renderMultiFieldParts(cond, input, errs, group)
	}
	return renderStandardParts(cond, input, errs)
}

func renderStandardParts(cond Condition, input, errs map[string]interface{}) []ContentPart {
	fieldAt := invertPositions(cond.FieldPosition)
	segments := literalSegments(cond.Text)

	var parts []ContentPart
	for i, segment := range segments {
		parts = append(parts, textPart(segment))
		field, ok := fieldAt[i]
		if !ok {
			continue
		}
		if msg := utils.GetString(errs, field); msg != "" {
			parts = append(parts, errorPart("["+msg+"]"))
			continue
		}
		parts = append(parts, variablePart(utils.GetString(input, field)))
	}
	return parts
}

func renderMultiFieldParts(cond Condition, input, errs map[string]interface{}, group multiFieldGroup) []ContentPart {
	values := make([]string, len(group.Fields))
	hasError := false
	for i, field := range group.Fields {
		if msg := utils.GetString(errs, field); msg != "" {
			values[i] = "[" + msg + "]"
			hasError = true
			continue
		}
		values[i] = utils.GetString(input, field)
	}

	combined := utils.Interleave(values, group.Joining)
	unit := variablePart(combined)
	if hasError {
		unit = errorPart(combined)
	}

	segments := literalSegments(cond.Text)
	if len(segments) == 0 {
		return []ContentPart{unit}
	}
	parts := []ContentPart{textPart(segments[0]), unit}
	if len(segments) > 1 {
		parts = append(parts, textPart(segments[1]))
	}
	return parts
}

func renderText(cond Condition, input, errs map[string]interface{}) string {
	if !cond.InputRequired() {
		return cond.Text
	}

	placeholders := placeholderPattern.FindAllString(cond.Text, -1)

	if group, ok := multiFields[cond.UserInput]; ok {
		values := make([]string, len(group.Fields))
		for i, field := range group.Fields {
			if msg := utils.GetString(errs, field); msg != "" {
				values[i] = "[" + msg + "]"
				continue
			}
			values[i] = utils.GetString(input, field)
		}
		if len(placeholders) == 0 {
			return cond.Text
		}
		return strings.Replace(cond.Text, placeholders[0], utils.Interleave(values, group.Joining), 1)
	}

	fieldAt := invertPositions(cond.FieldPosition)
	text := cond.Text
	for i, placeholder := range placeholders {
		field, ok := fieldAt[i]
		if !ok {
			continue
		}
		value := utils.GetString(input, field)
		if msg := utils.GetString(errs, field); msg != "" {
			value = "[" + msg + "]"
		}
		text = strings.Replace(text, placeholder, value, 1)
	}
	return text
}

// literalSegments splits the template on its placeholders, dropping
// empty segments. Placeholder ordinals index into this list.
func literalSegments(text string) []string {
	split := placeholderPattern.Split(text, -1)
	segments := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func invertPositions(positions map[string]int) map[int]string {
	fieldAt := make(map[int]string, len(positions))
	for field, position := range positions {
		fieldAt[position] = field
	}
	return fieldAt
}
