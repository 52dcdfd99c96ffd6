package utils

import (
	"strconv"
	"strings"
)

// CoerceBool normalizes an availability-style flag that source data stores
// inconsistently: native booleans, string booleans ("true"/"false"), or
// numeric 0/1. The second return reports whether the value was recognized.
func CoerceBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(t)))
		if err != nil {
			return false, false
		}
		return b, true
	case float64: // JSON numbers decode as float64
		return t != 0, true
	case int:
		return t != 0, true
	case nil:
		return false, false
	}
	return false, false
}
