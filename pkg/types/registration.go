package types

// Arm is a consent/informational variant assigned at registration.
type Arm string

const (
	ArmOne   Arm = "ARM_ONE"
	ArmTwo   Arm = "ARM_TWO"
	ArmThree Arm = "ARM_THREE"
	ArmFour  Arm = "ARM_FOUR"
)

var Arms = []Arm{ArmOne, ArmTwo, ArmThree, ArmFour}

// ArmFromDataGroups returns the first arm tag present in groups.
func ArmFromDataGroups(groups []UserDataGroup) (Arm, bool) {
	for _, g := range groups {
		for _, a := range Arms {
			if string(g) == string(a) {
				return a, true
			}
		}
	}
	return "", false
}

const (
	PageIDFieldName      = "pageId"
	PageWhatWillYouAsk   = "WHAT_WILL_YOU_ASK"
	PageRisksAndBenefits = "RISKS_AND_BENEFITS"
	PageRankedChoice     = "RANKED_CHOICE"
	PageConsentComplete  = "CONSENT_COMPLETE"
)

type Phone struct {
	Number     string `bson:"number" json:"number"`
	RegionCode string `bson:"regionCode" json:"regionCode"`
}

type RegistrationData struct {
	Phone       *Phone          `json:"phone,omitempty"`
	ClientData  map[string]any  `json:"clientData"`
	AppID       string          `json:"appId"`
	SubstudyIDs []string        `json:"substudyIds"`
	DataGroups  []UserDataGroup `json:"dataGroups"`
}

type SignInData struct {
	AppID string `json:"appId"`
	Phone Phone  `json:"phone"`
	Token string `json:"token,omitempty"`
}

type LoggedInUserData struct {
	SessionToken string          `json:"sessionToken"`
	FirstName    string          `json:"firstName"`
	Consented    bool            `json:"consented"`
	DataGroups   []UserDataGroup `json:"dataGroups"`
	ClientData   map[string]any  `json:"clientData,omitempty"`
}

type ConsentSignature struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}
