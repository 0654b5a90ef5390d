// Package validator checks licence sections against their declarative
// rule-sets and reports path-addressed errors.
package validator

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/hmpps/licence-management-api/internal/licence/model"
	"github.com/hmpps/licence-management-api/internal/system/utils"
)

// FieldError is one reported violation. Path runs from the section name
// down to the failing field.
type FieldError struct {
	Path    []string
	Message string
}

// Tree folds the error path into nested single-key objects with the
// message at the leaf.
func (e FieldError) Tree() map[string]interface{} {
	var node interface{} = e.Message
	for i := len(e.Path) - 1; i >= 0; i-- {
		node = map[string]interface{}{e.Path[i]: node}
	}
	return node.(map[string]interface{})
}

// FormSchema validates one form. Exactly one of the three shapes is
// set: Fields for a plain answer object, Items for a list of answer
// objects, PerKey for a map keyed by condition identifier.
type FormSchema struct {
	Fields RuleSet
	Items  RuleSet
	PerKey map[string]RuleSet
}

// SectionSchema maps form names to their schemas.
type SectionSchema map[string]FormSchema

// SectionErrors validates one section of the licence. A section with no
// content reports the single shortcut error {section: "Not answered"}.
func SectionErrors(licence model.Licence, section string) ([]FieldError, error) {
	forms, ok := Schema[section]
	if !ok {
		return nil, fmt.Errorf("unknown licence section %q", section)
	}

	sectionMap, isMap := licence[section].(map[string]interface{})
	if !isMap {
		return []FieldError{{Path: []string{section}, Message: MsgNotAnswered}}, nil
	}

	var errs []FieldError
	for _, formName := range sortedKeys(sectionMap) {
		formSchema, known := forms[formName]
		if !known {
			errs = append(errs, FieldError{Path: []string{section, formName}, Message: MsgNotAnswered})
			continue
		}
		errs = append(errs, validateForm(formSchema, sectionMap[formName], []string{section, formName})...)
	}
	return errs, nil
}

// LicenceErrors validates the named sections, applies the exception
// rules, and merges the surviving errors into a single tree.
func LicenceErrors(licence model.Licence, sections []string) (model.ErrorTree, error) {
	var all []FieldError
	for _, section := range sections {
		errs, err := SectionErrors(licence, section)
		if err != nil {
			return nil, err
		}
		all = append(all, errs...)
	}

	all = ApplyExceptions(all)

	tree := model.ErrorTree{}
	for _, e := range all {
		utils.MergeDeep(tree, e.Tree())
	}
	return tree, nil
}

func validateForm(fs FormSchema, content interface{}, path []string) []FieldError {
	switch {
	case fs.Items != nil:
		list, ok := content.([]interface{})
		if !ok {
			return []FieldError{{Path: path, Message: MsgNotAnswered}}
		}
		var errs []FieldError
		for i, item := range list {
			answers, _ := item.(map[string]interface{})
			itemPath := append(append([]string{}, path...), strconv.Itoa(i))
			errs = append(errs, validateRuleSet(fs.Items, answers, itemPath)...)
		}
		return errs

	case fs.PerKey != nil:
		m, ok := content.(map[string]interface{})
		if !ok {
			return []FieldError{{Path: path, Message: MsgNotAnswered}}
		}
		var errs []FieldError
		for _, key := range sortedKeys(m) {
			rules, known := fs.PerKey[key]
			keyPath := append(append([]string{}, path...), key)
			if !known {
				errs = append(errs, FieldError{Path: keyPath, Message: MsgNotAnswered})
				continue
			}
			answers, _ := m[key].(map[string]interface{})
			errs = append(errs, validateRuleSet(rules, answers, keyPath)...)
		}
		return errs

	default:
		m, ok := content.(map[string]interface{})
		if !ok {
			return []FieldError{{Path: path, Message: MsgNotAnswered}}
		}
		return validateRuleSet(fs.Fields, m, path)
	}
}

func validateRuleSet(rules RuleSet, content map[string]interface{}, path []string) []FieldError {
	var errs []FieldError

	for _, name := range sortedRuleNames(rules) {
		rule := rules[name]
		value, present := content[name]
		fieldPath := append(append([]string{}, path...), name)

		switch {
		case rule.Fields != nil:
			inner, isMap := value.(map[string]interface{})
			if !present || !isMap {
				if rule.requirement(content) == Required {
					errs = append(errs, FieldError{Path: fieldPath, Message: MsgNotAnswered})
				}
				continue
			}
			errs = append(errs, validateRuleSet(rule.Fields, inner, fieldPath)...)

		case rule.Items != nil:
			if !present {
				if rule.requirement(content) == Required {
					errs = append(errs, FieldError{Path: fieldPath, Message: MsgNotAnswered})
				}
				continue
			}
			list, isList := value.([]interface{})
			if !isList {
				errs = append(errs, FieldError{Path: fieldPath, Message: MsgNotAnswered})
				continue
			}
			for i, item := range list {
				answers, _ := item.(map[string]interface{})
				itemPath := append(append([]string{}, fieldPath...), strconv.Itoa(i))
				errs = append(errs, validateRuleSet(rule.Items, answers, itemPath)...)
			}

		default:
			if msg := checkField(rule, content, value, present); msg != "" {
				errs = append(errs, FieldError{Path: fieldPath, Message: msg})
			}
		}
	}

	// Answers outside the rule-set are rejected rather than ignored.
	for _, name := range sortedKeys(content) {
		if _, known := rules[name]; !known {
			errs = append(errs, FieldError{
				Path:    append(append([]string{}, path...), name),
				Message: MsgNotAnswered,
			})
		}
	}

	return errs
}

// checkField validates one scalar or selection answer. It returns the
// error message, or "" when the answer is acceptable.
func checkField(rule Rule, siblings map[string]interface{}, value interface{}, present bool) string {
	requirement := rule.requirement(siblings)

	if rule.Type == TypeSelection {
		list, isList := value.([]interface{})
		switch requirement {
		case Required:
			if !present || !isList || len(list) == 0 {
				return MsgNotAnswered
			}
		case MustBeBlank:
			if present && (!isList || len(list) > 0) {
				return MsgNotAnswered
			}
		}
		return ""
	}

	s, isString := value.(string)
	blank := !present || (isString && s == "")

	switch requirement {
	case MustBeBlank:
		if !blank {
			return MsgNotAnswered
		}
		return ""
	case Required:
		if blank {
			return MsgNotAnswered
		}
	case Optional:
		if blank {
			return ""
		}
	}

	return rule.checkScalar(value)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRuleNames(rules RuleSet) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
