package conditions

// BuildInputs extracts, per selected condition, the answers it collects
// from a single form submission. The result is keyed by condition id
// and shaped for storage under the additional conditions form.
func BuildInputs(selected []Condition, formInputs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(selected))
	for _, cond := range selected {
		answers := map[string]interface{}{}
		for field := range cond.FieldPosition {
			if value, ok := formInputs[field]; ok {
				answers[field] = value
			}
		}
		out[cond.ID] = answers
	}
	return out
}
