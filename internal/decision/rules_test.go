package decision_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"kanadia/internal/decision"
	dErrors "kanadia/pkg/domain-errors"
	"kanadia/pkg/testutil"
)

// RulesSuite covers the individual policy checks and the precedence in
// which EvaluateRecord composes them.
type RulesSuite struct {
	suite.Suite
	countries decision.CountryTable
	policy    decision.Policy
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.countries = testutil.DefaultCountries()
	s.policy = decision.Policy{
		Today:          testutil.Today,
		HomeNation:     "kan",
		VisaMaxAgeDays: decision.DefaultVisaMaxAgeDays,
	}
}

func (s *RulesSuite) TestQuarantine() {
	s.Run("advisory on from country", func() {
		q, err := decision.Quarantine(testutil.NewTravellerBuilder().WithFrom("CCC").Build(), s.countries)
		s.Require().NoError(err)
		s.True(q)
	})

	s.Run("advisory on via country", func() {
		q, err := decision.Quarantine(testutil.NewTravellerBuilder().Via("ccc").Build(), s.countries)
		s.Require().NoError(err)
		s.True(q)
	})

	s.Run("no advisory", func() {
		q, err := decision.Quarantine(testutil.NewTravellerBuilder().Via("BBB").Build(), s.countries)
		s.Require().NoError(err)
		s.False(q)
	})

	s.Run("unknown from country is a data integrity error", func() {
		_, err := decision.Quarantine(testutil.NewTravellerBuilder().WithFrom("ZZZ").Build(), s.countries)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDataIntegrity))
		s.Contains(err.Error(), "from.country")
	})

	s.Run("unknown via country is a data integrity error", func() {
		_, err := decision.Quarantine(testutil.NewTravellerBuilder().Via("ZZZ").Build(), s.countries)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDataIntegrity))
	})

	s.Run("advisory on from country short-circuits the via lookup", func() {
		q, err := decision.Quarantine(testutil.NewTravellerBuilder().WithFrom("CCC").Via("ZZZ").Build(), s.countries)
		s.Require().NoError(err)
		s.True(q)
	})
}

func (s *RulesSuite) TestCheckVisa() {
	visitor := func() *testutil.TravellerBuilder {
		return testutil.NewTravellerBuilder().WithHome("BBB")
	}
	check := func(t decision.Traveller, vt decision.VisaType) (bool, error) {
		return decision.CheckVisa(t, s.countries, vt, s.policy.Today, s.policy.VisaMaxAgeDays)
	}

	s.Run("visa not required", func() {
		ok, err := check(testutil.NewTravellerBuilder().Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("required but no visa", func() {
		ok, err := check(visitor().Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("required but visa has no date", func() {
		ok, err := check(visitor().WithUndatedVisa().Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("recent visa", func() {
		ok, err := check(visitor().WithVisa(testutil.DaysAgo(30)).Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("visa one day short of expiry", func() {
		ok, err := check(visitor().WithVisa(testutil.DaysAgo(729)).Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("visa exactly two years old", func() {
		ok, err := check(visitor().WithVisa(testutil.DaysAgo(730)).Build(), decision.VisaVisit)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("malformed visa date is fatal", func() {
		_, err := check(visitor().WithVisa("15-06-2024").Build(), decision.VisaVisit)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadFormat))
		s.Contains(err.Error(), "visa.date")
	})

	s.Run("check passes when entry reason is a different visa type", func() {
		ok, err := check(visitor().Build(), decision.VisaTransit)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("transit uses the transit requirement", func() {
		countries := decision.NewCountryTable([]decision.CountryInfo{
			testutil.NewCountryBuilder("VVV").VisitorVisaRequired().Build(),
			testutil.NewCountryBuilder("TTT").TransitVisaRequired().Build(),
		})
		transit := func(home string) decision.Traveller {
			return testutil.NewTravellerBuilder().WithHome(home).WithEntryReason("Transit").Build()
		}

		ok, err := decision.CheckVisa(transit("VVV"), countries, decision.VisaTransit, s.policy.Today, 730)
		s.Require().NoError(err)
		s.True(ok)

		ok, err = decision.CheckVisa(transit("TTT"), countries, decision.VisaTransit, s.policy.Today, 730)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("configured max age", func() {
		t := visitor().WithVisa(testutil.DaysAgo(100)).Build()
		ok, err := decision.CheckVisa(t, s.countries, decision.VisaVisit, s.policy.Today, 90)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("unknown home country is a data integrity error", func() {
		_, err := check(testutil.NewTravellerBuilder().WithHome("ZZZ").Build(), decision.VisaVisit)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDataIntegrity))
	})
}

func (s *RulesSuite) TestCheckWatchlist() {
	wl := decision.NewWatchlist([]decision.WatchlistEntry{
		{FirstName: "Ward", LastName: "Klingon", Passport: "XXXXX-XXXXX-XXXXX-XXXXX-XXXXX"},
		{FirstName: "Ivan", LastName: "Drago", Passport: testutil.OtherValidPassport},
	})

	s.Run("name match is case-insensitive", func() {
		s.True(decision.CheckWatchlist(testutil.NewTravellerBuilder().WithName("WARD", "klingon").Build(), wl))
	})

	s.Run("passport match is case-insensitive", func() {
		s.True(decision.CheckWatchlist(testutil.NewTravellerBuilder().WithPassport("wxyz1-23456-abcde-54321-00000").Build(), wl))
	})

	s.Run("first name alone does not match", func() {
		s.False(decision.CheckWatchlist(testutil.NewTravellerBuilder().WithName("Ward", "Doe").Build(), wl))
	})

	s.Run("empty watchlist", func() {
		s.False(decision.CheckWatchlist(testutil.NewTravellerBuilder().Build(), decision.NewWatchlist(nil)))
	})
}

func (s *RulesSuite) TestCheckReturningTraveller() {
	s.Run("citizen returning", func() {
		s.True(decision.CheckReturningTraveller(testutil.NewTravellerBuilder().Returning("kan").Build(), "kan"))
	})

	s.Run("reason and country are case-insensitive", func() {
		t := testutil.NewTravellerBuilder().WithHome("Kan").WithEntryReason("RETURNING").Build()
		s.True(decision.CheckReturningTraveller(t, "kan"))
	})

	s.Run("foreigner returning", func() {
		s.False(decision.CheckReturningTraveller(testutil.NewTravellerBuilder().Returning("AAA").Build(), "kan"))
	})

	s.Run("citizen visiting", func() {
		s.False(decision.CheckReturningTraveller(testutil.NewTravellerBuilder().WithHome("KAN").Build(), "kan"))
	})
}

func (s *RulesSuite) TestEvaluateRecordPrecedence() {
	watchlisted := decision.WatchlistEntry{FirstName: "Jane", LastName: "Doe"}

	cases := []struct {
		name      string
		traveller decision.Traveller
		watchlist []decision.WatchlistEntry
		verdict   decision.Verdict
		reason    decision.Reason
	}{
		{
			name:      "all checks pass",
			traveller: testutil.NewTravellerBuilder().Build(),
			verdict:   decision.VerdictAccept,
			reason:    decision.ReasonAllChecksPassed,
		},
		{
			name:      "incomplete record is rejected before anything else",
			traveller: testutil.NewTravellerBuilder().WithEntryReason("").WithFrom("CCC").Build(),
			watchlist: []decision.WatchlistEntry{watchlisted},
			verdict:   decision.VerdictReject,
			reason:    decision.ReasonIncompleteEntry,
		},
		{
			name:      "bad passport is rejected before quarantine",
			traveller: testutil.NewTravellerBuilder().WithPassport("ABCDE").WithFrom("CCC").Build(),
			verdict:   decision.VerdictReject,
			reason:    decision.ReasonInvalidPassportFormat,
		},
		{
			name:      "quarantine outranks visa rejection and watchlist",
			traveller: testutil.NewTravellerBuilder().WithHome("BBB").WithFrom("CCC").Build(),
			watchlist: []decision.WatchlistEntry{watchlisted},
			verdict:   decision.VerdictQuarantine,
			reason:    decision.ReasonMedicalAdvisory,
		},
		{
			name:      "visa rejection outranks watchlist",
			traveller: testutil.NewTravellerBuilder().WithHome("BBB").Build(),
			watchlist: []decision.WatchlistEntry{watchlisted},
			verdict:   decision.VerdictReject,
			reason:    decision.ReasonInvalidVisitorVisa,
		},
		{
			name:      "transit without visa",
			traveller: testutil.NewTravellerBuilder().WithHome("BBB").WithEntryReason("transit").Build(),
			verdict:   decision.VerdictReject,
			reason:    decision.ReasonInvalidTransitVisa,
		},
		{
			name:      "watchlist match",
			traveller: testutil.NewTravellerBuilder().Build(),
			watchlist: []decision.WatchlistEntry{watchlisted},
			verdict:   decision.VerdictSecondary,
			reason:    decision.ReasonWatchlistMatch,
		},
		{
			name:      "returning citizen on the watchlist is still sent to secondary",
			traveller: testutil.NewTravellerBuilder().Returning("KAN").Build(),
			watchlist: []decision.WatchlistEntry{watchlisted},
			verdict:   decision.VerdictSecondary,
			reason:    decision.ReasonWatchlistMatch,
		},
		{
			name:      "returning citizen",
			traveller: testutil.NewTravellerBuilder().Returning("KAN").Build(),
			verdict:   decision.VerdictAccept,
			reason:    decision.ReasonReturningCitizen,
		},
		{
			name:      "unknown entry reason is accepted",
			traveller: testutil.NewTravellerBuilder().WithHome("BBB").WithEntryReason("other").Build(),
			verdict:   decision.VerdictAccept,
			reason:    decision.ReasonAllChecksPassed,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			ds := testutil.NewDatasetBuilder().WithWatchlist(tc.watchlist...).Build()
			verdict, reason, err := decision.EvaluateRecord(tc.traveller, ds, s.policy)
			s.Require().NoError(err)
			s.Equal(tc.verdict, verdict)
			s.Equal(tc.reason, reason)
		})
	}
}

func (s *RulesSuite) TestEvaluateRecordFatalErrors() {
	s.Run("malformed visa date aborts even when quarantined", func() {
		t := testutil.NewTravellerBuilder().WithHome("BBB").WithFrom("CCC").WithVisa("2024/01/01").Build()
		_, _, err := decision.EvaluateRecord(t, testutil.NewDatasetBuilder().Build(), s.policy)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadFormat))
	})

	s.Run("malformed birth date", func() {
		t := testutil.NewTravellerBuilder().WithBirthDate("1985-13-01").Build()
		_, _, err := decision.EvaluateRecord(t, testutil.NewDatasetBuilder().Build(), s.policy)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadFormat))
	})

	s.Run("unknown country", func() {
		t := testutil.NewTravellerBuilder().WithFrom("ZZZ").Build()
		_, _, err := decision.EvaluateRecord(t, testutil.NewDatasetBuilder().Build(), s.policy)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDataIntegrity))
	})

	s.Run("incomplete record with unknown country is rejected without lookup", func() {
		t := testutil.NewTravellerBuilder().WithName("", "Doe").WithFrom("ZZZ").Build()
		verdict, _, err := decision.EvaluateRecord(t, testutil.NewDatasetBuilder().Build(), s.policy)
		s.Require().NoError(err)
		s.Equal(decision.VerdictReject, verdict)
	})
}
