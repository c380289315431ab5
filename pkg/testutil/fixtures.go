package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanadia/internal/decision"
)

// Today is the fixed reference date used by decision tests.
var Today = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// DaysAgo formats the date n days before Today as YYYY-MM-DD.
func DaysAgo(n int) string {
	return Today.AddDate(0, 0, -n).Format(decision.DateLayout)
}

// Passports that pass the format check.
const (
	ValidPassport      = "ABCDE-12345-FGHIJ-67890-KLMNO"
	OtherValidPassport = "WXYZ1-23456-ABCDE-54321-00000"
)

// TravellerBuilder provides a fluent interface for building test travellers.
// Defaults describe a complete visitor from "AAA" that passes every check
// against DefaultCountries.
type TravellerBuilder struct {
	t decision.Traveller
}

// NewTravellerBuilder creates a new TravellerBuilder with sensible defaults.
func NewTravellerBuilder() *TravellerBuilder {
	return &TravellerBuilder{
		t: decision.Traveller{
			FirstName:   "Jane",
			LastName:    "Doe",
			BirthDate:   "1985-03-21",
			Passport:    ValidPassport,
			HomeCountry: "AAA",
			FromCountry: "AAA",
			EntryReason: decision.EntryReasonVisit,
		},
	}
}

func (b *TravellerBuilder) WithName(firstName, lastName string) *TravellerBuilder {
	b.t.FirstName = firstName
	b.t.LastName = lastName
	return b
}

func (b *TravellerBuilder) WithBirthDate(date string) *TravellerBuilder {
	b.t.BirthDate = date
	return b
}

func (b *TravellerBuilder) WithPassport(passport string) *TravellerBuilder {
	b.t.Passport = passport
	return b
}

func (b *TravellerBuilder) WithHome(code string) *TravellerBuilder {
	b.t.HomeCountry = code
	return b
}

func (b *TravellerBuilder) WithFrom(code string) *TravellerBuilder {
	b.t.FromCountry = code
	return b
}

func (b *TravellerBuilder) Via(code string) *TravellerBuilder {
	b.t.ViaCountry = code
	return b
}

func (b *TravellerBuilder) WithEntryReason(reason string) *TravellerBuilder {
	b.t.EntryReason = reason
	return b
}

// WithVisa attaches a visa issued on date.
func (b *TravellerBuilder) WithVisa(date string) *TravellerBuilder {
	b.t.Visa = &decision.Visa{Date: &date, Code: "V-" + date}
	return b
}

// WithUndatedVisa attaches a visa block that has no date.
func (b *TravellerBuilder) WithUndatedVisa() *TravellerBuilder {
	b.t.Visa = &decision.Visa{Code: "V-UNDATED"}
	return b
}

// Returning makes the traveller a citizen of home coming back from abroad.
func (b *TravellerBuilder) Returning(home string) *TravellerBuilder {
	b.t.HomeCountry = home
	b.t.EntryReason = decision.EntryReasonReturning
	return b
}

// Build returns the normalized traveller.
func (b *TravellerBuilder) Build() decision.Traveller {
	return decision.Normalize(b.t)
}

// CountryBuilder provides a fluent interface for building country reference data.
type CountryBuilder struct {
	c decision.CountryInfo
}

// NewCountryBuilder creates a country with no visa requirement and no advisory.
func NewCountryBuilder(code string) *CountryBuilder {
	return &CountryBuilder{c: decision.CountryInfo{Code: code}}
}

func (b *CountryBuilder) VisitorVisaRequired() *CountryBuilder {
	b.c.VisitorVisaRequired = true
	return b
}

func (b *CountryBuilder) TransitVisaRequired() *CountryBuilder {
	b.c.TransitVisaRequired = true
	return b
}

func (b *CountryBuilder) WithAdvisory(advisory string) *CountryBuilder {
	b.c.MedicalAdvisory = advisory
	return b
}

func (b *CountryBuilder) Build() decision.CountryInfo {
	return b.c
}

// DefaultCountries is the country table most decision tests run against:
//
//	AAA  no requirements
//	BBB  visitor and transit visas required
//	CCC  medical advisory
//	KAN  home nation
func DefaultCountries() decision.CountryTable {
	return decision.NewCountryTable([]decision.CountryInfo{
		NewCountryBuilder("AAA").Build(),
		NewCountryBuilder("BBB").VisitorVisaRequired().TransitVisaRequired().Build(),
		NewCountryBuilder("CCC").WithAdvisory("Cholera outbreak").Build(),
		NewCountryBuilder("KAN").Build(),
	})
}

// DatasetBuilder assembles an in-memory dataset.
type DatasetBuilder struct {
	ds decision.Dataset
}

// NewDatasetBuilder starts from an empty watchlist and DefaultCountries.
func NewDatasetBuilder() *DatasetBuilder {
	return &DatasetBuilder{ds: decision.Dataset{Countries: DefaultCountries()}}
}

func (b *DatasetBuilder) WithRecords(records ...decision.Traveller) *DatasetBuilder {
	b.ds.Records = append(b.ds.Records, records...)
	return b
}

func (b *DatasetBuilder) WithWatchlist(entries ...decision.WatchlistEntry) *DatasetBuilder {
	b.ds.Watchlist = decision.NewWatchlist(entries)
	return b
}

func (b *DatasetBuilder) WithCountries(countries ...decision.CountryInfo) *DatasetBuilder {
	b.ds.Countries = decision.NewCountryTable(countries)
	return b
}

func (b *DatasetBuilder) Build() *decision.Dataset {
	ds := b.ds
	return &ds
}

// WriteFile writes content to name inside a per-test temp dir and returns
// the full path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// WriteJSON marshals v into name inside a per-test temp dir.
func WriteJSON(tb testing.TB, name string, v any) string {
	tb.Helper()
	data, err := json.Marshal(v)
	require.NoError(tb, err)
	return WriteFile(tb, name, string(data))
}

// WriteSources writes the three raw JSON documents and returns their paths.
func WriteSources(tb testing.TB, records, watchlist, countries string) decision.Sources {
	tb.Helper()
	return decision.Sources{
		Records:   WriteFile(tb, "records.json", records),
		Watchlist: WriteFile(tb, "watchlist.json", watchlist),
		Countries: WriteFile(tb, "countries.json", countries),
	}
}

// CountriesJSON is the wire form of DefaultCountries, using the mixed
// bool-like encodings found in real country tables.
const CountriesJSON = `{
  "AAA": {"code": "AAA", "name": "Alphaland", "visitor_visa_required": "0", "transit_visa_required": "0", "medical_advisory": ""},
  "BBB": {"code": "BBB", "name": "Betastan", "visitor_visa_required": "1", "transit_visa_required": 1, "medical_advisory": ""},
  "CCC": {"code": "CCC", "name": "Gammaria", "visitor_visa_required": false, "transit_visa_required": "false", "medical_advisory": "Cholera outbreak"},
  "KAN": {"code": "KAN", "name": "Kanadia", "visitor_visa_required": "0", "transit_visa_required": "0", "medical_advisory": ""}
}`
