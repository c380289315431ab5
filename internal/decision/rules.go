package decision

import (
	"fmt"
	"time"

	dErrors "kanadia/pkg/domain-errors"
)

// VisaType selects which visa rule CheckVisa applies.
type VisaType string

const (
	VisaVisit   VisaType = EntryReasonVisit
	VisaTransit VisaType = EntryReasonTransit
)

// required reports whether holders of a passport from c need this visa type.
func (v VisaType) required(c CountryInfo) bool {
	switch v {
	case VisaVisit:
		return c.VisitorVisaRequired
	case VisaTransit:
		return c.TransitVisaRequired
	default:
		return false
	}
}

// DefaultVisaMaxAgeDays is the age at which a visa stops being valid.
const DefaultVisaMaxAgeDays = 730

// Quarantine reports whether the traveller comes from, or transited through,
// a country with a medical advisory. Unknown country codes are a
// CodeDataIntegrity error.
func Quarantine(t Traveller, countries CountryTable) (bool, error) {
	from, err := lookupCountry(countries, "from.country", t.FromCountry)
	if err != nil {
		return false, err
	}
	if from.HasAdvisory() {
		return true, nil
	}

	if t.ViaCountry == "" {
		return false, nil
	}
	via, err := lookupCountry(countries, "via.country", t.ViaCountry)
	if err != nil {
		return false, err
	}
	return via.HasAdvisory(), nil
}

// CheckVisa applies the visa rule for visaType. It passes vacuously when the
// entry reason is not visaType or the home country does not require the visa.
// Otherwise the visa must carry a date younger than maxAgeDays relative to
// today. A malformed visa date is a CodeBadFormat error.
func CheckVisa(t Traveller, countries CountryTable, visaType VisaType, today time.Time, maxAgeDays int) (bool, error) {
	if t.EntryReason != string(visaType) {
		return true, nil
	}

	home, err := lookupCountry(countries, "home.country", t.HomeCountry)
	if err != nil {
		return false, err
	}
	if !visaType.required(home) {
		return true, nil
	}

	if t.Visa == nil || t.Visa.Date == nil {
		return false, nil
	}
	issued, err := parseDate(*t.Visa.Date)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeBadFormat, fmt.Sprintf("visa.date %q is not a valid YYYY-MM-DD date", *t.Visa.Date))
	}

	return daysBetween(issued, today) < maxAgeDays, nil
}

// CheckWatchlist reports whether the traveller matches any watchlist entry,
// by full name or by passport.
func CheckWatchlist(t Traveller, watchlist Watchlist) bool {
	for _, e := range watchlist.entries {
		if t.FirstName == e.FirstName && t.LastName == e.LastName {
			return true
		}
		if t.PassportKey == e.Passport {
			return true
		}
	}
	return false
}

// CheckReturningTraveller reports whether the traveller is a citizen of
// homeNation (folded) coming home.
func CheckReturningTraveller(t Traveller, homeNation string) bool {
	return t.EntryReason == EntryReasonReturning && t.HomeCountry == homeNation
}

// checkResults are the policy signals of a record that passed the gate.
type checkResults struct {
	quarantined   bool
	visitorVisaOK bool
	transitVisaOK bool
	watchlisted   bool
	returning     bool
}

// EvaluateRecord applies the full rule chain to one record.
// This is pure domain logic: no I/O, no clock, no shared state.
//
// Rule priority:
//  1. Completeness and format (gate) -> Reject
//  2. Medical advisory -> Quarantine
//  3. Visitor or transit visa invalid -> Reject
//  4. Watchlist match -> Secondary
//  5. Accept
//
// Every policy check runs before composing, so fatal data errors (malformed
// visa date, unknown country) abort regardless of which rule would fire.
func EvaluateRecord(t Traveller, ds *Dataset, policy Policy) (Verdict, Reason, error) {
	complete, err := EntryComplete(t)
	if err != nil {
		return "", "", err
	}
	if !complete {
		return VerdictReject, ReasonIncompleteEntry, nil
	}
	if !ValidFormats(t) {
		return VerdictReject, ReasonInvalidPassportFormat, nil
	}

	var c checkResults
	if c.quarantined, err = Quarantine(t, ds.Countries); err != nil {
		return "", "", err
	}
	if c.visitorVisaOK, err = CheckVisa(t, ds.Countries, VisaVisit, policy.Today, policy.VisaMaxAgeDays); err != nil {
		return "", "", err
	}
	if c.transitVisaOK, err = CheckVisa(t, ds.Countries, VisaTransit, policy.Today, policy.VisaMaxAgeDays); err != nil {
		return "", "", err
	}
	c.watchlisted = CheckWatchlist(t, ds.Watchlist)
	c.returning = CheckReturningTraveller(t, policy.HomeNation)

	verdict, reason := compose(c)
	return verdict, reason, nil
}

// compose maps check results onto a verdict. Returning-citizen status only
// changes the reason, never the verdict.
func compose(c checkResults) (Verdict, Reason) {
	switch {
	case c.quarantined:
		return VerdictQuarantine, ReasonMedicalAdvisory
	case !c.visitorVisaOK:
		return VerdictReject, ReasonInvalidVisitorVisa
	case !c.transitVisaOK:
		return VerdictReject, ReasonInvalidTransitVisa
	case c.watchlisted:
		return VerdictSecondary, ReasonWatchlistMatch
	case c.returning:
		return VerdictAccept, ReasonReturningCitizen
	default:
		return VerdictAccept, ReasonAllChecksPassed
	}
}

// lookupCountry translates a table miss into a CodeDataIntegrity error.
func lookupCountry(countries CountryTable, field, code string) (CountryInfo, error) {
	c, err := countries.Lookup(code)
	if err != nil {
		return CountryInfo{}, dErrors.Wrap(err, dErrors.CodeDataIntegrity, fmt.Sprintf("%s %q is not in the country table", field, code))
	}
	return c, nil
}

// daysBetween counts calendar days from issued (UTC midnight) to the calendar
// date of today in today's location.
func daysBetween(issued, today time.Time) int {
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(todayDate.Sub(issued).Hours() / 24)
}
