package stepflow

type ArmStepKind int

const (
	ArmStepNone ArmStepKind = iota
	ArmStepIntro
	ArmStepRankedChoice
)

func (k ArmStepKind) String() string {
	switch k {
	case ArmStepIntro:
		return "intro"
	case ArmStepRankedChoice:
		return "ranked_choice"
	}
	return "none"
}

// ArmStep is what a consent flow shows at a given index. RankedChoice steps
// are rendered by the externally supplied ranked-choice component.
type ArmStep struct {
	Kind ArmStepKind
	Step int
}

const (
	armTwoFirstRanked = 2
	armTwoLastRanked  = 7
)

// ArmTwoMaxSteps is the length of the arm-two consent flow.
const ArmTwoMaxSteps = armTwoLastRanked

func ArmTwoStep(index int) ArmStep {
	switch {
	case index == 1:
		return ArmStep{Kind: ArmStepIntro, Step: index}
	case index >= armTwoFirstRanked && index <= armTwoLastRanked:
		return ArmStep{Kind: ArmStepRankedChoice, Step: index}
	default:
		return ArmStep{Kind: ArmStepNone, Step: index}
	}
}

// RankedChoice is the renderer contract for delegated ranked-choice steps.
type RankedChoice interface {
	Render(step, maxSteps int) View
}

// RenderArmStep dispatches an ArmStep to its screen. The second result is
// false for ArmStepNone: nothing is rendered.
func RenderArmStep(s ArmStep, maxSteps int, intro View, ranked RankedChoice) (View, bool) {
	switch s.Kind {
	case ArmStepIntro:
		return intro, true
	case ArmStepRankedChoice:
		return ranked.Render(s.Step, maxSteps), true
	case ArmStepNone:
		return View{}, false
	}
	return View{}, false
}
