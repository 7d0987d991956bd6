package consent

import (
	"fmt"
	"strconv"

	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const (
	FlowName          = "consent"
	Path              = "/consent/steps"
	RankingField      = "ranking"
	SignatureScope    = "sponsors_and_partners"
	CheckpointField   = "checkpoint"
	MarkerComplete    = "complete"
	rankedChoiceForm  = "ranked_choice_%d"
	shortArmMaxSteps  = 2
	kindIntro         = "intro"
	kindRisksBenefits = "risks_and_benefits"
	kindInfo          = "info"
)

// MaxSteps is the length of the consent flow of an arm; 0 for unknown arms.
func MaxSteps(arm types.Arm) int {
	switch arm {
	case types.ArmTwo:
		return stepflow.ArmTwoMaxSteps
	case types.ArmOne, types.ArmThree, types.ArmFour:
		return shortArmMaxSteps
	}
	return 0
}

type rankedChoice struct{}

func (rankedChoice) Render(step, maxSteps int) stepflow.View {
	return stepflow.View{
		Flow:     FlowName,
		Step:     step,
		MaxSteps: maxSteps,
		Kind:     stepflow.ArmStepRankedChoice.String(),
		FormID:   fmt.Sprintf(rankedChoiceForm, step-1),
		Location: location(step),
	}
}

// RankedChoice renders the delegated ranked-choice screens of arm two.
var RankedChoice stepflow.RankedChoice = rankedChoice{}

func location(step int) string {
	return fmt.Sprintf("%s?%s=%d", Path, stepflow.StepQueryParam, step)
}

func staticView(kind string, step, maxSteps int) stepflow.View {
	return stepflow.View{
		Flow:     FlowName,
		Step:     step,
		MaxSteps: maxSteps,
		Kind:     kind,
		Location: location(step),
	}
}

// Screen returns what the arm shows at step. ok is false when nothing is
// rendered there.
func Screen(arm types.Arm, step int) (stepflow.View, bool) {
	maxSteps := MaxSteps(arm)
	if maxSteps == 0 {
		return stepflow.View{}, false
	}
	intro := staticView(kindIntro, step, maxSteps)
	if arm == types.ArmTwo {
		return stepflow.RenderArmStep(stepflow.ArmTwoStep(step), maxSteps, intro, RankedChoice)
	}
	switch step {
	case 1:
		return intro, true
	case 2:
		if arm == types.ArmOne {
			return staticView(kindRisksBenefits, step, maxSteps), true
		}
		return staticView(kindInfo, step, maxSteps), true
	}
	return stepflow.View{}, false
}

// PageID is the checkpoint page recorded when the participant reaches step.
func PageID(arm types.Arm, step int) string {
	if step > MaxSteps(arm) {
		return types.PageConsentComplete
	}
	if arm == types.ArmTwo && step >= 3 {
		return types.PageRankedChoice
	}
	if step >= 2 {
		return types.PageRisksAndBenefits
	}
	return types.PageWhatWillYouAsk
}

// Steps lays out the consent flow of an arm. Step IDs are the step numbers
// so the URL marker stays numeric; only ranked-choice steps carry an answer.
func Steps(arm types.Arm) []stepflow.Step {
	maxSteps := MaxSteps(arm)
	steps := make([]stepflow.Step, 0, maxSteps)
	for i := 1; i <= maxSteps; i++ {
		s := stepflow.Step{ID: strconv.Itoa(i), Title: PageID(arm, i), Kind: stepflow.KindInfo}
		if arm == types.ArmTwo && stepflow.ArmTwoStep(i).Kind == stepflow.ArmStepRankedChoice {
			s.Kind = stepflow.KindMulti
			s.Field = RankingField
			s.FormID = fmt.Sprintf(rankedChoiceForm, i-1)
		}
		steps = append(steps, s)
	}
	return steps
}

// NewFlow builds the consent flow of an arm. Every move is checkpointed to
// the backend and the final one signs the consent.
func NewFlow(arm types.Arm, sink analytics.Sink) *stepflow.Flow[*Accumulator] {
	return &stepflow.Flow[*Accumulator]{
		Name:           FlowName,
		Action:         string(arm),
		Path:           Path,
		Steps:          Steps(arm),
		EligibleMarker: MarkerComplete,
		Checkpoint:     (*Accumulator).checkpoint,
		Sink:           sink,
		TrackInfo:      true,
	}
}
