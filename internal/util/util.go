// Package util provides small shared helpers.
package util

import "strings"

// ContainsAny reports whether the lower-cased s contains any of the given
// lower-case keywords as a substring.
func ContainsAny(s string, keywords ...string) bool {
	s = strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
