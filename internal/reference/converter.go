package reference

import (
	"maps"
	"slices"

	"kanadia/internal/decision"
)

// toTraveller maps a wire record onto the domain model and normalizes it.
// A via block without a country is treated as no transit.
func toTraveller(r recordDTO) decision.Traveller {
	t := decision.Traveller{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BirthDate:   r.BirthDate,
		Passport:    r.Passport,
		HomeCountry: r.Home.country(),
		FromCountry: r.From.country(),
		ViaCountry:  r.Via.country(),
		EntryReason: r.EntryReason,
	}
	if r.Visa != nil {
		t.Visa = &decision.Visa{Date: r.Visa.Date, Code: r.Visa.Code}
	}
	return decision.Normalize(t)
}

func toTravellers(records []recordDTO) []decision.Traveller {
	out := make([]decision.Traveller, len(records))
	for i, r := range records {
		out[i] = toTraveller(r)
	}
	return out
}

func toWatchlist(entries []watchlistEntryDTO) decision.Watchlist {
	out := make([]decision.WatchlistEntry, len(entries))
	for i, e := range entries {
		out[i] = decision.WatchlistEntry{
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Passport:  e.Passport,
		}
	}
	return decision.NewWatchlist(out)
}

// toCountryTable keys countries by their map key; the embedded code field is
// informational only. Keys are visited in sorted order so that codes which
// collide after folding resolve the same way on every run.
func toCountryTable(countries map[string]countryDTO) decision.CountryTable {
	out := make([]decision.CountryInfo, 0, len(countries))
	for _, code := range slices.Sorted(maps.Keys(countries)) {
		c := countries[code]
		out = append(out, decision.CountryInfo{
			Code:                code,
			VisitorVisaRequired: bool(c.VisitorVisaRequired),
			TransitVisaRequired: bool(c.TransitVisaRequired),
			MedicalAdvisory:     c.MedicalAdvisory,
		})
	}
	return decision.NewCountryTable(out)
}
