package eligibility

import (
	"errors"
	"strings"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// PhoneLength is the national number length accepted per country.
func PhoneLength(country types.CountryCode) int {
	switch country {
	case types.CountryUK:
		return 11
	case types.CountryIndia, types.CountrySouthAfrica, types.CountryUnitedStates:
		return 10
	}
	return 0
}

// LoginCountry falls back to UK for unset or unsupported locations.
func LoginCountry(country types.CountryCode) types.CountryCode {
	if PhoneLength(country) == 0 {
		return types.CountryUK
	}
	return country
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone strips every non-digit and checks the country's length.
func ValidatePhone(number string, country types.CountryCode) (string, error) {
	length := PhoneLength(country)
	digits := digitsOnly(number)
	if length == 0 || len(digits) != length {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// RegionCode maps a study country to the ISO region the backend expects.
func RegionCode(country types.CountryCode) string {
	if country == types.CountryUK {
		return "GB"
	}
	return string(country)
}

func MakePhone(number string, country types.CountryCode) (types.Phone, error) {
	digits, err := ValidatePhone(number, country)
	if err != nil {
		return types.Phone{}, err
	}
	return types.Phone{Number: digits, RegionCode: RegionCode(country)}, nil
}
