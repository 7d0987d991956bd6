package stepflow

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mindkind-study/enrollment-portal/pkg/utils"
)

type Kind int

const (
	KindInfo Kind = iota
	KindChoice
	KindMulti
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindChoice:
		return "choice"
	case KindMulti:
		return "multi"
	case KindNumber:
		return "number"
	}
	return "unknown"
}

// Step describes one screen of a flow. Field is a dotted path into the
// renderer's formData.
type Step struct {
	ID     string
	Title  string
	FormID string
	Kind   Kind
	Field  string
	// Hidden steps are not written into the URL (the intro screen).
	Hidden bool

	Options   []string // allowed values for choice and multi steps; empty allows anything
	Exclusive string   // multi option that deselects every other option
	Min, Max  int      // inclusive bounds for number steps
}

type Answer struct {
	Kind    Kind
	Text    string
	Options []string
	Number  int
}

func (a Answer) String() string {
	switch a.Kind {
	case KindChoice:
		return a.Text
	case KindMulti:
		return strings.Join(a.Options, ",")
	case KindNumber:
		return strconv.Itoa(a.Number)
	}
	return ""
}

func (s Step) allows(option string) bool {
	if len(s.Options) == 0 {
		return true
	}
	for _, o := range s.Options {
		if o == option {
			return true
		}
	}
	return false
}

func (s Step) validate(formData map[string]any) (Answer, error) {
	empty := &ValidationError{Kind: EmptySelection, StepID: s.ID}
	if s.Kind == KindInfo {
		return Answer{Kind: KindInfo}, nil
	}

	raw, err := utils.FindFormValue(formData, s.Field)
	if err != nil {
		return Answer{}, empty
	}

	switch s.Kind {
	case KindChoice:
		text, ok := choiceText(raw)
		if !ok || text == "" || !s.allows(text) {
			return Answer{}, empty
		}
		return Answer{Kind: KindChoice, Text: text}, nil
	case KindMulti:
		selection, _ := s.Normalize(utils.StringList(raw))
		if len(selection) == 0 {
			return Answer{}, empty
		}
		return Answer{Kind: KindMulti, Options: selection}, nil
	case KindNumber:
		n, ok := number(raw)
		if !ok || n < s.Min || n > s.Max {
			return Answer{}, &ValidationError{Kind: OutOfRange, StepID: s.ID}
		}
		return Answer{Kind: KindNumber, Number: n}, nil
	}
	return Answer{}, ErrUnknownStep
}

// Normalize applies the exclusive option of a multi step: when it is
// selected it becomes the only selection and every other option is
// reported as disabled. Unknown options are dropped.
func (s Step) Normalize(selected []string) (selection []string, disabled []string) {
	selection = make([]string, 0, len(selected))
	seen := map[string]bool{}
	for _, o := range selected {
		if o == "" || seen[o] || !s.allows(o) {
			continue
		}
		seen[o] = true
		if s.Exclusive != "" && o == s.Exclusive {
			selection = []string{s.Exclusive}
			break
		}
		selection = append(selection, o)
	}
	if s.Exclusive == "" || len(selection) != 1 || selection[0] != s.Exclusive {
		return selection, []string{}
	}
	disabled = []string{}
	for _, o := range s.Options {
		if o != s.Exclusive {
			disabled = append(disabled, o)
		}
	}
	return selection, disabled
}

func choiceText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case bool:
		if v {
			return "yes", true
		}
		return "no", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func number(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func findList(formData map[string]any, field string) ([]string, bool) {
	raw, err := utils.FindFormValue(formData, field)
	if err != nil {
		return nil, false
	}
	return utils.StringList(raw), true
}
