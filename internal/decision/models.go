package decision

import (
	"fmt"
	"time"

	"kanadia/pkg/platform/sentinel"
	"kanadia/pkg/platform/strings"
)

// Verdict enumerates the possible entry dispositions.
type Verdict string

const (
	VerdictAccept     Verdict = "Accept"
	VerdictReject     Verdict = "Reject"
	VerdictSecondary  Verdict = "Secondary"
	VerdictQuarantine Verdict = "Quarantine"
)

func (v Verdict) String() string { return string(v) }

// Reason encodes which rule produced a verdict.
type Reason string

const (
	ReasonIncompleteEntry       Reason = "incomplete_entry"
	ReasonInvalidPassportFormat Reason = "invalid_passport_format"
	ReasonMedicalAdvisory       Reason = "medical_advisory"
	ReasonInvalidVisitorVisa    Reason = "invalid_visitor_visa"
	ReasonInvalidTransitVisa    Reason = "invalid_transit_visa"
	ReasonWatchlistMatch        Reason = "watchlist_match"
	ReasonReturningCitizen      Reason = "returning_citizen"
	ReasonAllChecksPassed       Reason = "all_checks_passed"
)

// Entry reasons, in folded form.
const (
	EntryReasonVisit     = "visit"
	EntryReasonTransit   = "transit"
	EntryReasonReturning = "returning"
)

// Visa is the optional visa block of a record.
type Visa struct {
	// Date is nil when the record carries a visa without a date.
	Date *string
	Code string
}

// Traveller is a travel record after normalization. Case-insensitive fields
// (names, passport key, country codes, entry reason) hold folded values; the
// raw passport and dates are kept for format checks.
type Traveller struct {
	FirstName   string
	LastName    string
	BirthDate   string
	Passport    string
	PassportKey string
	HomeCountry string
	FromCountry string
	// ViaCountry is empty when the record has no transit country.
	ViaCountry  string
	EntryReason string
	// Visa is nil when the record has no visa block.
	Visa *Visa
}

// Normalize folds the case-insensitive fields of t once, so every later
// comparison is a plain equality check.
func Normalize(t Traveller) Traveller {
	t.FirstName = strings.Fold(t.FirstName)
	t.LastName = strings.Fold(t.LastName)
	t.PassportKey = strings.Fold(t.Passport)
	t.HomeCountry = strings.Fold(t.HomeCountry)
	t.FromCountry = strings.Fold(t.FromCountry)
	t.ViaCountry = strings.Fold(t.ViaCountry)
	t.EntryReason = strings.Fold(t.EntryReason)
	if t.Visa != nil {
		v := *t.Visa
		t.Visa = &v
	}
	return t
}

// CountryInfo is the reference data for one country.
type CountryInfo struct {
	Code                string
	VisitorVisaRequired bool
	TransitVisaRequired bool
	// MedicalAdvisory is empty when no advisory is in force.
	MedicalAdvisory string
}

// HasAdvisory reports whether a medical advisory is in force.
func (c CountryInfo) HasAdvisory() bool { return c.MedicalAdvisory != "" }

// CountryTable is an immutable lookup of country reference data keyed by
// folded country code.
type CountryTable struct {
	countries map[string]CountryInfo
}

// NewCountryTable builds a table from the given entries. Codes are folded;
// on duplicate codes (after folding) the last entry wins.
func NewCountryTable(countries []CountryInfo) CountryTable {
	m := make(map[string]CountryInfo, len(countries))
	for _, c := range countries {
		m[strings.Fold(c.Code)] = c
	}
	return CountryTable{countries: m}
}

// Lookup returns the country for a folded code. Unknown codes return an
// error wrapping sentinel.ErrNotFound.
func (t CountryTable) Lookup(code string) (CountryInfo, error) {
	c, ok := t.countries[code]
	if !ok {
		return CountryInfo{}, fmt.Errorf("country %q: %w", code, sentinel.ErrNotFound)
	}
	return c, nil
}

// Len returns the number of countries in the table.
func (t CountryTable) Len() int { return len(t.countries) }

// WatchlistEntry identifies a person of interest. Fields are folded.
type WatchlistEntry struct {
	FirstName string
	LastName  string
	Passport  string
}

// Watchlist is an ordered, immutable list of entries.
type Watchlist struct {
	entries []WatchlistEntry
}

// NewWatchlist folds and copies entries.
func NewWatchlist(entries []WatchlistEntry) Watchlist {
	out := make([]WatchlistEntry, len(entries))
	for i, e := range entries {
		out[i] = WatchlistEntry{
			FirstName: strings.Fold(e.FirstName),
			LastName:  strings.Fold(e.LastName),
			Passport:  strings.Fold(e.Passport),
		}
	}
	return Watchlist{entries: out}
}

// Len returns the number of entries.
func (w Watchlist) Len() int { return len(w.entries) }

// Sources names the three inputs of a decision batch.
type Sources struct {
	Records   string
	Watchlist string
	Countries string
}

// Dataset is everything a batch needs, loaded once and read-only afterwards.
type Dataset struct {
	Records   []Traveller
	Watchlist Watchlist
	Countries CountryTable
}

// Policy holds the batch-wide parameters of the rules.
type Policy struct {
	// Today is the reference date for visa age.
	Today time.Time
	// HomeNation is the folded code of the administering nation.
	HomeNation string
	// VisaMaxAgeDays is the age at which a visa becomes invalid.
	VisaMaxAgeDays int
}

// Result is the verdict for one record plus the rule that produced it.
type Result struct {
	Index   int
	Verdict Verdict
	Reason  Reason
}
