package stepflow

import (
	"net/url"

	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const StepQueryParam = "step"

// Advance moves one step forward; maxSteps+1 is the terminal index.
func Advance(current, maxSteps int) int {
	return min(current+1, maxSteps+1)
}

func Retreat(current int) int {
	return max(1, current-1)
}

// Accumulator stores validated answers for one wizard run.
type Accumulator interface {
	Record(stepID string, answer Answer) error
	Reset()
}

// Run is the mutable position of one wizard instance.
type Run[A Accumulator] struct {
	Index    int
	Furthest int
	Outcome  types.Outcome
	Answers  A
}

func NewRun[A Accumulator](answers A) *Run[A] {
	return &Run[A]{Index: 1, Furthest: 1, Answers: answers}
}

type Flow[A Accumulator] struct {
	Name   string // analytics category
	Action string // analytics title
	Path   string // route the step markers are written on
	Steps  []Step

	// Eligible decides the terminal outcome. A nil predicate always
	// completes with OutcomeEligible.
	Eligible         func(A) bool
	EligibleMarker   string
	IneligibleMarker string

	// Checkpoint runs once a step's answer is recorded, before the run
	// moves from one index to the next. An error keeps the run in place.
	Checkpoint func(answers A, from, to int) error

	Sink analytics.Sink
	// TrackInfo emits events for info steps as well.
	TrackInfo bool
}

func (f *Flow[A]) MaxSteps() int {
	return len(f.Steps)
}

func (f *Flow[A]) IsTerminal(run *Run[A]) bool {
	return run.Index > f.MaxSteps()
}

func (f *Flow[A]) Current(run *Run[A]) (Step, bool) {
	if run.Index < 1 || f.IsTerminal(run) {
		return Step{}, false
	}
	return f.Steps[run.Index-1], true
}

func (f *Flow[A]) StepByID(stepID string) (Step, int, bool) {
	for i, s := range f.Steps {
		if s.ID == stepID {
			return s, i + 1, true
		}
	}
	return Step{}, 0, false
}

func (f *Flow[A]) Validate(stepID string, formData map[string]any) (Answer, error) {
	step, _, ok := f.StepByID(stepID)
	if !ok {
		return Answer{}, ErrUnknownStep
	}
	return step.validate(formData)
}

// Marker is the human readable URL marker of the run's position.
func (f *Flow[A]) Marker(run *Run[A]) string {
	if f.IsTerminal(run) {
		f.evaluate(run)
		if run.Outcome == types.OutcomeEligible {
			return f.EligibleMarker
		}
		return f.IneligibleMarker
	}
	step, ok := f.Current(run)
	if !ok || step.Hidden {
		return ""
	}
	return step.ID
}

func (f *Flow[A]) Location(run *Run[A]) string {
	marker := f.Marker(run)
	if marker == "" {
		return f.Path
	}
	return f.Path + "?" + url.Values{StepQueryParam: {marker}}.Encode()
}

// Enter returns the marker for the run's step and whether the URL has to
// be rewritten. A query already carrying the marker needs no new history
// entry.
func (f *Flow[A]) Enter(run *Run[A], query url.Values) (marker string, push bool) {
	marker = f.Marker(run)
	if marker == "" {
		return "", false
	}
	return marker, query.Get(StepQueryParam) != marker
}

// Seek follows back/forward navigation to a previously reached step. An
// empty marker is the bare flow URL of a hidden first step.
func (f *Flow[A]) Seek(run *Run[A], marker string) bool {
	if f.IsTerminal(run) {
		return false
	}
	if marker == "" {
		if len(f.Steps) == 0 || !f.Steps[0].Hidden || run.Index == 1 {
			return false
		}
		run.Index = 1
		return true
	}
	step, index, ok := f.StepByID(marker)
	if !ok || step.Hidden || index > run.Furthest {
		return false
	}
	run.Index = index
	return true
}

// Submit validates the answer for the current step, records it, passes the
// checkpoint, emits the analytics event and advances.
func (f *Flow[A]) Submit(run *Run[A], stepID string, formData map[string]any) (Answer, error) {
	step, ok := f.Current(run)
	if !ok {
		return Answer{}, ErrTerminal
	}
	if stepID != "" && stepID != step.ID {
		return Answer{}, ErrStepMismatch
	}
	answer, err := step.validate(formData)
	if err != nil {
		return Answer{}, err
	}
	if step.Kind != KindInfo {
		if err := run.Answers.Record(step.ID, answer); err != nil {
			return Answer{}, err
		}
	}
	next := Advance(run.Index, f.MaxSteps())
	if f.Checkpoint != nil {
		if err := f.Checkpoint(run.Answers, run.Index, next); err != nil {
			return Answer{}, err
		}
	}
	if f.Sink != nil && (step.Kind != KindInfo || f.TrackInfo) {
		f.Sink.SendEvent(f.Name, step.Title, f.Action, answer.String())
	}
	run.Index = next
	run.Furthest = max(run.Furthest, run.Index)
	f.evaluate(run)
	return answer, nil
}

func (f *Flow[A]) Back(run *Run[A]) error {
	if f.IsTerminal(run) {
		return ErrTerminal
	}
	run.Index = Retreat(run.Index)
	return nil
}

// Restart returns to the first step. Answers survive unless reset is set.
func (f *Flow[A]) Restart(run *Run[A], reset bool) {
	run.Index = 1
	run.Outcome = types.OutcomePending
	if reset {
		run.Furthest = 1
		run.Answers.Reset()
	}
}

// Change reports the derived selection state of a multi step while the
// participant is still editing it.
func (f *Flow[A]) Change(stepID string, formData map[string]any) (selection []string, disabled []string, err error) {
	step, _, ok := f.StepByID(stepID)
	if !ok || step.Kind != KindMulti {
		return nil, nil, ErrUnknownStep
	}
	raw, _ := findList(formData, step.Field)
	selection, disabled = step.Normalize(raw)
	return selection, disabled, nil
}

// evaluate settles the terminal outcome once per answer set.
func (f *Flow[A]) evaluate(run *Run[A]) {
	if !f.IsTerminal(run) || run.Outcome != types.OutcomePending {
		return
	}
	if f.Eligible == nil || f.Eligible(run.Answers) {
		run.Outcome = types.OutcomeEligible
		return
	}
	run.Outcome = types.OutcomeIneligible
}
