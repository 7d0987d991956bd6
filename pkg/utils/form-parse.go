package utils

import (
	"errors"
	"strings"
)

var ErrFormValueNotFound = errors.New("could not find form value")

// FindFormValue walks a dotted path ("country_chooser.your_country") through
// the formData object sent by the form renderer.
func FindFormValue(formData map[string]any, path string) (any, error) {
	if formData == nil {
		return nil, ErrFormValueNotFound
	}
	keyParts := strings.SplitN(path, ".", 2)
	value, ok := formData[keyParts[0]]
	if !ok || value == nil {
		return nil, ErrFormValueNotFound
	}
	if len(keyParts) == 1 {
		return value, nil
	}
	child, ok := value.(map[string]any)
	if !ok {
		return nil, ErrFormValueNotFound
	}
	return FindFormValue(child, keyParts[1])
}

// StringList converts a decoded JSON array into strings, skipping anything
// that is not a string.
func StringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		res := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}
	return nil
}
