package utils

import "fmt"

// IsLetters reports whether s is non-empty and made of ASCII letters only.
func IsLetters(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// ValidateQuery checks a query before it reaches the suggester.
func ValidateQuery(q string, minLen, maxLen int) error {
	if !IsLetters(q) {
		return fmt.Errorf("query %q should only contain letters", q)
	}
	if len(q) < minLen {
		return fmt.Errorf("query %q is shorter than %d letters", q, minLen)
	}
	if len(q) > maxLen {
		return fmt.Errorf("query %q is longer than %d letters", q, maxLen)
	}
	return nil
}
