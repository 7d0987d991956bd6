package eligibility

import (
	"fmt"

	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// Accumulator writes validated quiz answers into EligibilityChoices.
type Accumulator struct {
	Choices *types.EligibilityChoices
}

func NewAccumulator(choices *types.EligibilityChoices) *Accumulator {
	return &Accumulator{Choices: choices}
}

func (a *Accumulator) Record(stepID string, answer stepflow.Answer) error {
	c := a.Choices
	switch stepID {
	case StepHowDidYouHear:
		c.HowDidYouHear = answer.Text
	case StepWhere:
		country := types.CountryCode(answer.Text)
		if !country.IsKnown() {
			return fmt.Errorf("unknown country %q", answer.Text)
		}
		c.UserLocation = country
	case StepAndroid:
		c.HasAndroid = types.YesNo(answer.Text)
	case StepEnglish:
		c.UnderstandsEnglish = types.YesNo(answer.Text)
	case StepAgeRange:
		c.Age = answer.Number
	case StepGender:
		c.Gender = make([]types.GenderOption, 0, len(answer.Options))
		for _, o := range answer.Options {
			c.Gender = append(c.Gender, types.GenderOption(o))
		}
	case StepBenefit:
		c.AccessToSupport = answer.Text
	default:
		return fmt.Errorf("%w: %s", stepflow.ErrUnknownStep, stepID)
	}
	return nil
}

// Reset clears every answer. The negotiated language is kept.
func (a *Accumulator) Reset() {
	lang := a.Choices.Language
	*a.Choices = types.NewEligibilityChoices()
	a.Choices.Language = lang
}

func isEligible(a *Accumulator) bool {
	return IsEligible(*a.Choices)
}
