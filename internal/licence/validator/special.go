package validator

// exceptionRule suppresses redundant errors for field groups that are
// optional as a unit. When the trigger path carries the default message
// and every grouped path does too, the whole group was skipped
// deliberately and its errors are removed. A partially answered group
// keeps all of its errors.
type exceptionRule struct {
	trigger []string
	group   [][]string
}

var exceptionRules = []exceptionRule{
	{
		trigger: []string{"proposedAddress", "curfewAddress", "occupier", "name"},
		group: [][]string{
			{"proposedAddress", "curfewAddress", "occupier", "name"},
			{"proposedAddress", "curfewAddress", "occupier", "relationship"},
		},
	},
}

// ApplyExceptions filters an error list through the exception rules.
func ApplyExceptions(errs []FieldError) []FieldError {
	for _, rule := range exceptionRules {
		if !hasDefaultError(errs, rule.trigger) {
			continue
		}
		if !allDefaultErrors(errs, rule.group) {
			continue
		}
		errs = removePaths(errs, rule.group)
	}
	return errs
}

func hasDefaultError(errs []FieldError, path []string) bool {
	for _, e := range errs {
		if e.Message == MsgNotAnswered && pathsEqual(e.Path, path) {
			return true
		}
	}
	return false
}

func allDefaultErrors(errs []FieldError, paths [][]string) bool {
	for _, path := range paths {
		if !hasDefaultError(errs, path) {
			return false
		}
	}
	return true
}

func removePaths(errs []FieldError, paths [][]string) []FieldError {
	kept := errs[:0]
	for _, e := range errs {
		removed := false
		for _, path := range paths {
			if pathsEqual(e.Path, path) {
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, e)
		}
	}
	return kept
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
