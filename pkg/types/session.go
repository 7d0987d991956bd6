package types

// UserDataGroup is a server-assigned cohort tag.
type UserDataGroup string

const (
	DataGroupTestUser       UserDataGroup = "test_user"
	DataGroupTestsAvailable UserDataGroup = "tests_available"
	DataGroupTestsCollected UserDataGroup = "tests_collected"
	DataGroupTestsScheduled UserDataGroup = "tests_scheduled"
)

// SessionData is the authenticated state of one client. A missing token
// implies Consented == false and an empty UserDataGroup.
type SessionData struct {
	Token         string          `json:"-"`
	Name          string          `json:"name"`
	Consented     bool            `json:"consented"`
	UserDataGroup []UserDataGroup `json:"userDataGroup"`
}

func (s SessionData) IsAuthenticated() bool {
	return s.Token != ""
}

func (s SessionData) HasDataGroup(group UserDataGroup) bool {
	for _, g := range s.UserDataGroup {
		if g == group {
			return true
		}
	}
	return false
}
