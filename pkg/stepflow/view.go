package stepflow

import "github.com/mindkind-study/enrollment-portal/pkg/types"

// View is the screen descriptor handed to the renderer.
type View struct {
	Flow     string        `json:"flow"`
	Step     int           `json:"step"`
	MaxSteps int           `json:"maxSteps"`
	StepID   string        `json:"stepId,omitempty"`
	Kind     string        `json:"kind"`
	Title    string        `json:"title,omitempty"`
	FormID   string        `json:"formId,omitempty"`
	Options  []string      `json:"options,omitempty"`
	Marker   string        `json:"marker,omitempty"`
	Location string        `json:"location"`
	Outcome  types.Outcome `json:"outcome,omitempty"`
}

func (f *Flow[A]) View(run *Run[A]) View {
	v := View{
		Flow:     f.Name,
		Step:     run.Index,
		MaxSteps: f.MaxSteps(),
		Marker:   f.Marker(run),
		Location: f.Location(run),
	}
	step, ok := f.Current(run)
	if !ok {
		v.Kind = "terminal"
		v.Outcome = run.Outcome
		return v
	}
	v.StepID = step.ID
	v.Kind = step.Kind.String()
	v.Title = step.Title
	v.FormID = step.FormID
	v.Options = step.Options
	return v
}
