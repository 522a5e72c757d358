// Package wizard sequences multi-step question flows with branching and
// resumable checkpoints. Sessions are process-local and rebuilt on every
// request from a persisted checkpoint and the stored answers.
package wizard

// Kind is the input type of a question.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindEmail    Kind = "email"
	KindBoolean  Kind = "boolean"
	KindChoice   Kind = "choice"
	KindForm     Kind = "form"
)

// Question is a single prompt. Form questions collect Fields as one JSON object.
type Question struct {
	Field    string     `json:"field"`
	Label    string     `json:"label"`
	Kind     Kind       `json:"kind"`
	Required bool       `json:"required"`
	Options  []string   `json:"options,omitempty"`
	Flag     string     `json:"flag,omitempty"`
	Fields   []Question `json:"fields,omitempty"`
}

// Mode controls how a step is presented when the cursor enters it.
type Mode int

const (
	ModeQuestions Mode = iota
	ModeForm
	ModeSkip
)

// Flags holds branch decisions taken earlier in the flow.
type Flags map[string]bool

// IsSet reports whether flag was recorded and its value.
func (f Flags) IsSet(flag string) (value bool, ok bool) {
	value, ok = f[flag]
	return value, ok
}

// Clone copies the flags.
func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Step groups questions of one type.
type Step struct {
	Type      string
	Title     string
	Questions []Question
	// Form replaces Questions when Mode returns ModeForm.
	Form *Question
	// Mode is evaluated at step entry. Nil means ModeQuestions.
	Mode func(Flags) Mode
}

func (s Step) mode(flags Flags) Mode {
	if s.Mode == nil {
		return ModeQuestions
	}
	return s.Mode(flags)
}

func (s Step) active(flags Flags) []Question {
	switch s.mode(flags) {
	case ModeSkip:
		return nil
	case ModeForm:
		if s.Form == nil {
			return nil
		}
		return []Question{*s.Form}
	default:
		return s.Questions
	}
}

// Flow is an ordered list of steps.
type Flow struct {
	Name  string
	Steps []Step
}

// Total counts the questions presented under flags.
func (f *Flow) Total(flags Flags) int {
	total := 0
	for _, st := range f.Steps {
		total += len(st.active(flags))
	}
	return total
}

// Lookup finds the question answered under key "{stepType}.{field}" in any mode.
func (f *Flow) Lookup(key string) (Step, Question, bool) {
	for _, st := range f.Steps {
		for _, q := range st.Questions {
			if AnswerKey(st.Type, q.Field) == key {
				return st, q, true
			}
		}
		if st.Form != nil && AnswerKey(st.Type, st.Form.Field) == key {
			return st, *st.Form, true
		}
	}
	return Step{}, Question{}, false
}

// FlagsFrom rebuilds branch flags from stored answers.
func (f *Flow) FlagsFrom(answers map[string]string) Flags {
	flags := Flags{}
	for key, value := range answers {
		_, q, ok := f.Lookup(key)
		if !ok || q.Flag == "" {
			continue
		}
		if b, err := parseBool(value); err == nil {
			flags[q.Flag] = b
		}
	}
	return flags
}

// AnswerKey builds the persisted key for an answer.
func AnswerKey(stepType, field string) string {
	return stepType + "." + field
}
