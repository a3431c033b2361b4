package utils

import "unicode"

// IsValidNationalID checks the candidate identity document format: digits
// only, between 6 and 13 characters. Exact-match comparison against the
// stored value happens in the session service; this only rejects garbage
// input before it reaches the database.
func IsValidNationalID(id string) bool {
	if len(id) < 6 || len(id) > 13 {
		return false
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidEmail checks if the email string contains an "@" symbol and a dot.
func IsValidEmail(email string) bool {
	at, dot := false, false
	for _, r := range email {
		switch r {
		case '@':
			at = true
		case '.':
			dot = true
		}
	}
	return at && dot
}
