package gate

import "github.com/mindkind-study/enrollment-portal/pkg/types"

type Screen string

const (
	ScreenResultDashboard Screen = "ResultDashboard"
	ScreenAppointment     Screen = "Appointment"
	ScreenDashboard       Screen = "Dashboard"
)

func hasGroup(groups []types.UserDataGroup, group types.UserDataGroup) bool {
	for _, g := range groups {
		if g == group {
			return true
		}
	}
	return false
}

// DashboardVariant picks the dashboard screen. First match wins.
func DashboardVariant(groups []types.UserDataGroup) Screen {
	if hasGroup(groups, types.DataGroupTestsAvailable) || hasGroup(groups, types.DataGroupTestsCollected) {
		return ScreenResultDashboard
	}
	if hasGroup(groups, types.DataGroupTestsScheduled) {
		return ScreenAppointment
	}
	return ScreenDashboard
}
