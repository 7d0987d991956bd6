package types

import "go.mongodb.org/mongo-driver/bson/primitive"

type WizardKind string

const (
	WizardKindEligibility WizardKind = "eligibility"
	WizardKindConsent     WizardKind = "consent"
)

type Outcome string

const (
	OutcomePending    Outcome = ""
	OutcomeEligible   Outcome = "eligible"
	OutcomeIneligible Outcome = "ineligible"
)

type WizardRecord struct {
	ID           string             `bson:"_id" json:"id"`
	Kind         WizardKind         `bson:"kind" json:"kind"`
	Step         int                `bson:"step" json:"step"`
	Furthest     int                `bson:"furthest" json:"furthest"`
	Outcome      Outcome            `bson:"outcome" json:"outcome"`
	Choices      EligibilityChoices `bson:"choices" json:"choices"`
	ConsentModel Arm                `bson:"consentModel,omitempty" json:"consentModel,omitempty"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt" json:"updatedAt"`
}

// RegistrationRecord pins the arm drawn for a wizard so retries reuse it.
type RegistrationRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WizardID     string             `bson:"wizardID" json:"wizardID"`
	ConsentModel Arm                `bson:"consentModel" json:"consentModel"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	SignedUpAt   int64              `bson:"signedUpAt" json:"signedUpAt"`
	Phone        *Phone             `bson:"phone,omitempty" json:"phone,omitempty"` // the number the account was created with
	SignInSentAt int64              `bson:"signInSentAt" json:"signInSentAt"`
}
