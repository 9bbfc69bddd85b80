package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passportRe = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)
	phoneStrip = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone accepts 10-15 digits after stripping common formatting.
func ValidPhone(s string) bool {
	cleaned := phoneStrip.Replace(strings.TrimSpace(s))
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidPassport accepts 6-9 alphanumeric characters.
func ValidPassport(s string) bool {
	return passportRe.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// ValidPassword requires at least 8 characters with one letter and one digit.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter && hasDigit
}

// ValidDateOfBirth rejects future dates and implausible ages.
func ValidDateOfBirth(dob time.Time, now time.Time) bool {
	if dob.After(now) {
		return false
	}
	return now.Sub(dob) < 150*365*24*time.Hour
}
