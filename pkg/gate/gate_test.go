package gate

import (
	"testing"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

func TestResolve(t *testing.T) {
	anonymous := types.SessionData{}
	pending := types.SessionData{Token: "t", Consented: false}
	consented := types.SessionData{Token: "t", Consented: true}

	testCases := []struct {
		name     string
		session  types.SessionData
		uri      string
		action   Action
		location string
	}{
		{"no token on consented route", anonymous, "/dashboard", RedirectEligibility, "/eligibility?from=%2Fdashboard"},
		{"no token on auth route", anonymous, "/settings", RedirectEligibility, "/eligibility?from=%2Fsettings"},
		{"not consented on consented route", pending, "/dashboard", RedirectConsent, "/consent?from=%2Fdashboard"},
		{"not consented on survey", pending, "/survey/phq9", RedirectConsent, "/consent?from=%2Fsurvey%2Fphq9"},
		{"not consented on auth route", pending, "/settings", Allow, ""},
		{"not consented on consent steps", pending, "/consent/steps?step=2", Allow, ""},
		{"consented on consented route", consented, "/dashboard", Allow, ""},
		{"consented on auth route", consented, "/consentehr", Allow, ""},
		{"public route anonymous", anonymous, "/faqs", Allow, ""},
		{"eligibility anonymous", anonymous, "/eligibility?step=where", Allow, ""},
		{"query is remembered", anonymous, "/result?id=3", RedirectEligibility, "/eligibility?from=%2Fresult%3Fid%3D3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(tc.session, tc.uri)
			if d.Action != tc.action {
				t.Fatalf("expected %s, got %s", tc.action, d.Action)
			}
			if d.Location != tc.location {
				t.Errorf("expected location %q, got %q", tc.location, d.Location)
			}
			if d.Action != Allow && d.From != tc.uri {
				t.Errorf("expected from %q, got %q", tc.uri, d.From)
			}
		})
	}
}

func TestRequirementFor(t *testing.T) {
	testCases := []struct {
		path     string
		expected Requirement
	}{
		{"/dashboard", Consented},
		{"/dashboard/", Consented},
		{"/Dashboard", Consented},
		{"/survey/", Public},
		{"/survey/x", Consented},
		{"/consent", Authenticated},
		{"/", Public},
		{"/login", Public},
	}
	for _, tc := range testCases {
		if got := RequirementFor(tc.path); got != tc.expected {
			t.Errorf("RequirementFor(%q) = %d, expected %d", tc.path, got, tc.expected)
		}
	}
}

func TestDashboardVariant(t *testing.T) {
	testCases := []struct {
		name     string
		groups   []types.UserDataGroup
		expected Screen
	}{
		{"no groups", nil, ScreenDashboard},
		{"unrelated group", []types.UserDataGroup{"ARM_ONE", "UK"}, ScreenDashboard},
		{"available", []types.UserDataGroup{types.DataGroupTestsAvailable}, ScreenResultDashboard},
		{"collected", []types.UserDataGroup{types.DataGroupTestsCollected}, ScreenResultDashboard},
		{"scheduled", []types.UserDataGroup{types.DataGroupTestsScheduled}, ScreenAppointment},
		{"scheduled and available", []types.UserDataGroup{types.DataGroupTestsScheduled, types.DataGroupTestsAvailable}, ScreenResultDashboard},
		{"scheduled and collected", []types.UserDataGroup{types.DataGroupTestsCollected, types.DataGroupTestsScheduled}, ScreenResultDashboard},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DashboardVariant(tc.groups); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
