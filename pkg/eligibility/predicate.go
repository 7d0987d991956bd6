package eligibility

import "github.com/mindkind-study/enrollment-portal/pkg/types"

const (
	MinAgeUK    = 16
	MinAgeOther = 18
	MaxAge      = 24
)

// AgeInRange reports whether age fits the band of the given location. An
// unset location or a missing (zero or negative) age never fits.
func AgeInRange(location types.CountryCode, age int) bool {
	if location == "" || age <= 0 {
		return false
	}
	if location == types.CountryUK {
		return age >= MinAgeUK && age <= MaxAge
	}
	return age >= MinAgeOther && age <= MaxAge
}

// IsEligible requires every criterion to hold.
func IsEligible(choices types.EligibilityChoices) bool {
	if !choices.UserLocation.IsKnown() || choices.UserLocation == types.CountryOther {
		return false
	}
	if !choices.HasAndroid.IsDefinite() {
		return false
	}
	if !AgeInRange(choices.UserLocation, choices.Age) {
		return false
	}
	return choices.UnderstandsEnglish.IsDefinite()
}
