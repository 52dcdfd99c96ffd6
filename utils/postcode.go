package utils

import (
	"regexp"
	"strings"
)

var postcodeRe = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2}$`)

// NormalizePostcode normalizes a UK postcode for storage: uppercase, no
// internal whitespace.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// ValidatePostcode reports whether the input looks like a UK postcode.
// Partial (outward-only) codes such as "SE17" are rejected; search handles
// those as plain substrings instead.
func ValidatePostcode(postcode string) bool {
	return postcodeRe.MatchString(NormalizePostcode(postcode))
}

// DisplayPostcode formats a postcode for display with the conventional space
// before the inward code, e.g. "SE173RY" -> "SE17 3RY".
func DisplayPostcode(postcode string) string {
	normalized := NormalizePostcode(postcode)
	if !postcodeRe.MatchString(normalized) {
		return postcode
	}
	return normalized[:len(normalized)-3] + " " + normalized[len(normalized)-3:]
}
