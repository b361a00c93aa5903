package service

import "regexp"

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,6}$`)

// IsValidEmail reports whether the address matches the local@domain.tld
// shape: word characters, dots and hyphens on both sides, 2 to 6 letter TLD.
func IsValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// IsValidPassword enforces the registration password shape: 8 to 12
// characters, exactly one uppercase letter, exactly two digits, every
// remaining character a lowercase ASCII letter.
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 12 {
		return false
	}

	var uppercase, digits int
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			uppercase++
		case c >= '0' && c <= '9':
			digits++
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return uppercase == 1 && digits == 2
}
