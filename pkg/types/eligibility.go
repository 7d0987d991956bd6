package types

type CountryCode string

const (
	CountryUK           CountryCode = "UK"
	CountryIndia        CountryCode = "IN"
	CountrySouthAfrica  CountryCode = "ZA"
	CountryUnitedStates CountryCode = "US"
	CountryOther        CountryCode = "Other"
)

func (c CountryCode) IsKnown() bool {
	switch c {
	case CountryUK, CountryIndia, CountrySouthAfrica, CountryUnitedStates, CountryOther:
		return true
	}
	return false
}

type YesNo string

const (
	YesNoUnset YesNo = ""
	Yes        YesNo = "yes"
	No         YesNo = "no"
)

func (v YesNo) IsDefinite() bool {
	return v == Yes || v == No
}

type GenderOption string

const (
	GenderWoman          GenderOption = "woman"
	GenderMan            GenderOption = "man"
	GenderNonBinary      GenderOption = "non_binary"
	GenderTransgender    GenderOption = "transgender"
	GenderOther          GenderOption = "other"
	GenderPreferNotToSay GenderOption = "prefer_not_to_say"
)

var GenderOptions = []GenderOption{
	GenderWoman,
	GenderMan,
	GenderNonBinary,
	GenderTransgender,
	GenderOther,
	GenderPreferNotToSay,
}

const AgeUnset = -1

// EligibilityChoices holds the answers of one eligibility quiz run.
type EligibilityChoices struct {
	HowDidYouHear      string         `bson:"howDidYouHear" json:"howDidYouHear"`
	UserLocation       CountryCode    `bson:"userLocation" json:"userLocation"`
	HasAndroid         YesNo          `bson:"hasAndroid" json:"hasAndroid"`
	UnderstandsEnglish YesNo          `bson:"understandsEnglish" json:"understandsEnglish"`
	Gender             []GenderOption `bson:"gender" json:"gender"`
	Age                int            `bson:"age" json:"age"`
	AccessToSupport    string         `bson:"accessToSupport" json:"accessToSupport"`
	Language           string         `bson:"language" json:"language"`
	PhoneNumber        string         `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
}

func NewEligibilityChoices() EligibilityChoices {
	return EligibilityChoices{Age: AgeUnset}
}
