package eligibility

import (
	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const (
	StepIntro         = "intro"
	StepHowDidYouHear = "howDidYouHear"
	StepWhere         = "where"
	StepAndroid       = "android"
	StepEnglish       = "english"
	StepAgeRange      = "ageRange"
	StepGender        = "gender"
	StepBenefit       = "benefit"
	StepSummary       = "summary"

	MarkerEligible    = "eligible"
	MarkerNotEligible = "not-eligible"

	FlowName   = "eligibility"
	FlowAction = "quiz-accept"
	FlowPath   = "/eligibility"
)

var yesNo = []string{string(types.Yes), string(types.No)}

func genderOptions() []string {
	res := make([]string, len(types.GenderOptions))
	for i, g := range types.GenderOptions {
		res[i] = string(g)
	}
	return res
}

// Steps is the eligibility quiz in display order.
func Steps() []stepflow.Step {
	return []stepflow.Step{
		{ID: StepIntro, Title: "Thank you for your interest", Kind: stepflow.KindInfo, Hidden: true},
		{ID: StepHowDidYouHear, Title: "How did you hear about us?", FormID: "how_did_you_hear", Kind: stepflow.KindChoice, Field: "how_did_you_hear.how_options"},
		{
			ID:     StepWhere,
			Title:  "Where do you live?",
			FormID: "country_chooser",
			Kind:   stepflow.KindChoice,
			Field:  "country_chooser.your_country",
			Options: []string{
				string(types.CountryUK),
				string(types.CountryIndia),
				string(types.CountrySouthAfrica),
				string(types.CountryUnitedStates),
				string(types.CountryOther),
			},
		},
		{ID: StepAndroid, Title: "Do you have an android?", FormID: "android_verify", Kind: stepflow.KindChoice, Field: "android_verify.has_android", Options: yesNo},
		{ID: StepEnglish, Title: "Do you speak english?", FormID: "understands_english", Kind: stepflow.KindChoice, Field: "understands_english.understands_english_option", Options: yesNo},
		{ID: StepAgeRange, Title: "How old are you?", FormID: "age_verify", Kind: stepflow.KindNumber, Field: "age", Min: 1, Max: 120},
		{
			ID:        StepGender,
			Title:     "What is your current gender/gender identity?",
			FormID:    "gender",
			Kind:      stepflow.KindMulti,
			Field:     "gender",
			Options:   genderOptions(),
			Exclusive: string(types.GenderPreferNotToSay),
		},
		{ID: StepBenefit, Title: "Benefits of health support", FormID: "support_verify", Kind: stepflow.KindChoice, Field: "support_verify.accept"},
		{ID: StepSummary, Title: "Please review your answers", Kind: stepflow.KindInfo},
	}
}

func NewFlow(sink analytics.Sink) *stepflow.Flow[*Accumulator] {
	return &stepflow.Flow[*Accumulator]{
		Name:             FlowName,
		Action:           FlowAction,
		Path:             FlowPath,
		Steps:            Steps(),
		Eligible:         isEligible,
		EligibleMarker:   MarkerEligible,
		IneligibleMarker: MarkerNotEligible,
		Sink:             sink,
	}
}
