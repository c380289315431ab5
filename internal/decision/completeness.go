package decision

import (
	"fmt"

	dErrors "kanadia/pkg/domain-errors"
)

// requiredField is one mandatory record field. validate, when set, runs on a
// present value and returns a fatal error for malformed data.
type requiredField struct {
	name     string
	value    func(Traveller) string
	validate func(string) error
}

// requiredFields is checked in order; the first failure wins.
var requiredFields = []requiredField{
	{name: "first_name", value: func(t Traveller) string { return t.FirstName }},
	{name: "last_name", value: func(t Traveller) string { return t.LastName }},
	{name: "birth_date", value: func(t Traveller) string { return t.BirthDate }, validate: validateBirthDate},
	{name: "passport", value: func(t Traveller) string { return t.Passport }},
	{name: "home.country", value: func(t Traveller) string { return t.HomeCountry }},
	{name: "from.country", value: func(t Traveller) string { return t.FromCountry }},
	{name: "entry_reason", value: func(t Traveller) string { return t.EntryReason }},
}

// MissingField returns the name of the first mandatory field that is absent
// or empty, or "" when the record is complete. A present but malformed
// birth_date is a CodeBadFormat error, not a missing field.
func MissingField(t Traveller) (string, error) {
	for _, f := range requiredFields {
		v := f.value(t)
		if v == "" {
			return f.name, nil
		}
		if f.validate != nil {
			if err := f.validate(v); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

// EntryComplete reports whether all mandatory fields are present and non-empty.
func EntryComplete(t Traveller) (bool, error) {
	missing, err := MissingField(t)
	if err != nil {
		return false, err
	}
	return missing == "", nil
}

func validateBirthDate(v string) error {
	if _, err := parseDate(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadFormat, fmt.Sprintf("birth_date %q is not a valid YYYY-MM-DD date", v))
	}
	return nil
}
