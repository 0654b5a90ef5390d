// Package fieldmap filters raw form submissions down to the answers a
// form declares. A field map is an ordered list of field descriptors;
// interpretation walks the descriptors against the submitted input and
// keeps only what the map admits.
package fieldmap

// Limit caps the length of a list field based on the value of another
// input field.
type Limit struct {
	// Field names the input field whose value selects the cap.
	Field string
	// Max maps controlling values to the maximum number of items kept.
	Max map[string]int
}

// Field describes one answer a form collects.
type Field struct {
	Name string

	// DependentOn names a sibling input field that gates this one. The
	// field is kept only when the sibling's value equals Predicate.
	DependentOn string
	Predicate   string

	// Contains describes the inner shape of an object or list field.
	Contains FieldMap

	// IsList marks the field as a list of objects shaped by Contains.
	IsList bool

	// LimitedBy optionally caps a list field.
	LimitedBy *Limit
}

// FieldMap is the ordered field list for one form.
type FieldMap []Field

// Interpret filters input against the field map. Unknown input fields
// are dropped, dependent fields whose predicate does not match are
// dropped, nested shapes are interpreted recursively, and list items
// that carry no answers are removed. Interpreting an already
// interpreted document returns it unchanged.
func Interpret(fields FieldMap, input map[string]interface{}) map[string]interface{} {
	answers := make(map[string]interface{})
	if input == nil {
		return answers
	}

	for _, field := range fields {
		if field.DependentOn != "" {
			controlling, _ := input[field.DependentOn].(string)
			if controlling != field.Predicate {
				continue
			}
		}

		switch {
		case field.IsList:
			answers[field.Name] = interpretList(field, input)
		case len(field.Contains) > 0:
			inner, _ := input[field.Name].(map[string]interface{})
			answers[field.Name] = Interpret(field.Contains, inner)
		default:
			if value, ok := input[field.Name]; ok {
				answers[field.Name] = value
			}
		}
	}

	return answers
}

func interpretList(field Field, input map[string]interface{}) []interface{} {
	items, _ := input[field.Name].([]interface{})

	kept := make([]interface{}, 0, len(items))
	for _, item := range items {
		inner, _ := item.(map[string]interface{})
		answers := Interpret(field.Contains, inner)
		if allEmpty(answers) {
			continue
		}
		kept = append(kept, answers)
	}

	if field.LimitedBy != nil {
		controlling, _ := input[field.LimitedBy.Field].(string)
		if max, ok := field.LimitedBy.Max[controlling]; ok && len(kept) > max {
			kept = kept[:max]
		}
	}

	return kept
}

func allEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]interface{}:
		for _, member := range v {
			if !allEmpty(member) {
				return false
			}
		}
		return true
	case []interface{}:
		for _, member := range v {
			if !allEmpty(member) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
