package decision

import (
	"errors"
	"regexp"
	"time"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// passportPattern: five groups of five arbitrary characters separated by
// dashes. Anchored to the full string, so over-length numbers are rejected.
var passportPattern = regexp.MustCompile(`^.{5}-.{5}-.{5}-.{5}-.{5}$`)

// ValidPassportFormat reports whether s has the passport number shape.
func ValidPassportFormat(s string) bool {
	return passportPattern.MatchString(s)
}

// ValidDateFormat reports whether s is a real calendar date written as
// YYYY-MM-DD with zero-padded month and day.
func ValidDateFormat(s string) bool {
	_, err := parseDate(s)
	return err == nil
}

// ValidFormats applies both format validators to a record.
func ValidFormats(t Traveller) bool {
	return ValidPassportFormat(t.Passport) && ValidDateFormat(t.BirthDate)
}

// parseDate parses a YYYY-MM-DD date at UTC midnight. time.Parse rejects
// out-of-range months and days (month 13, Feb 30) and trailing text, but
// tolerates a signed year, so the digit shape is checked first.
func parseDate(s string) (time.Time, error) {
	if !isDateShape(s) {
		return time.Time{}, errDateShape
	}
	return time.Parse(DateLayout, s)
}

var errDateShape = errors.New("date must be YYYY-MM-DD")

func isDateShape(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}
