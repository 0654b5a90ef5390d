package utils

import "encoding/json"

// GetIn walks a nested document along the given path. Map segments are
// looked up by key. It returns nil when any segment is missing or the
// value at an intermediate segment is not a map.
func GetIn(doc map[string]interface{}, path ...string) interface{} {
	var current interface{} = doc
	for _, segment := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// GetString returns the string at the given path, or "" when the path is
// missing or holds a non-string value.
func GetString(doc map[string]interface{}, path ...string) string {
	s, _ := GetIn(doc, path...).(string)
	return s
}

// AllValuesEmpty reports whether a value carries no answers. Empty
// strings, nil, empty collections and collections whose members are all
// empty count as empty.
func AllValuesEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]interface{}:
		for _, member := range v {
			if !AllValuesEmpty(member) {
				return false
			}
		}
		return true
	case []interface{}:
		for _, member := range v {
			if !AllValuesEmpty(member) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interleave weaves the first list with the second, starting with the
// first. Missing entries contribute nothing.
func Interleave(first, second []string) string {
	var out string
	for i, s := range first {
		out += s
		if i < len(second) {
			out += second[i]
		}
	}
	return out
}

// DeepCopy clones a document via a JSON round trip. The engine never
// mutates its inputs, so every update starts from a copy.
func DeepCopy(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// MergeDeep folds src into dst, recursing into maps and replacing
// everything else. dst is modified in place and returned.
func MergeDeep(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = map[string]interface{}{}
	}
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]interface{}); ok {
			if dstMap, ok := dst[key].(map[string]interface{}); ok {
				dst[key] = MergeDeep(dstMap, srcMap)
				continue
			}
		}
		dst[key] = srcVal
	}
	return dst
}
