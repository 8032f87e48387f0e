package domain

import "regexp"

var msisdnPattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// ValidMSISDN reports whether s is a well-formed subscriber number: 10 to 15
// digits, nothing else.
func ValidMSISDN(s string) bool {
	return msisdnPattern.MatchString(s)
}
