package reference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// recordDTO is the wire shape of one travel record. Optional blocks are
// pointers so an absent block is distinguishable from an empty one.
type recordDTO struct {
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	BirthDate   string       `json:"birth_date"`
	Passport    string       `json:"passport"`
	Home        *locationDTO `json:"home"`
	From        *locationDTO `json:"from"`
	Via         *locationDTO `json:"via"`
	EntryReason string       `json:"entry_reason"`
	Visa        *visaDTO     `json:"visa"`
}

type locationDTO struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type visaDTO struct {
	Date *string `json:"date"`
	Code string  `json:"code"`
}

type watchlistEntryDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Passport  string `json:"passport"`
}

type countryDTO struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	VisitorVisaRequired flag   `json:"visitor_visa_required"`
	TransitVisaRequired flag   `json:"transit_visa_required"`
	MedicalAdvisory     string `json:"medical_advisory"`
}

// flag decodes the bool-like values found in country tables:
// "1"/"0", 1/0, true/false, "true"/"false", "" and null.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = flag(x)
	case float64:
		*f = x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes":
			*f = true
		case "0", "false", "no", "":
			*f = false
		default:
			return fmt.Errorf("invalid flag value %q", x)
		}
	default:
		return fmt.Errorf("invalid flag value %s", string(b))
	}
	return nil
}

func (l *locationDTO) country() string {
	if l == nil {
		return ""
	}
	return l.Country
}
