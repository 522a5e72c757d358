package wizard

import "strings"

// Answer is a validated response keyed by "{stepType}.{field}".
type Answer struct {
	Key      string `json:"key"`
	StepType string `json:"stepType"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// Position describes the cursor.
type Position struct {
	Step     int    `json:"step"`
	Question int    `json:"question"`
	StepType string `json:"stepType"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Done     bool   `json:"done"`
}

// Session walks a flow. The step and question cursors move independently:
// leaving the last question of a step enters the next step at question 0.
type Session struct {
	flow     *Flow
	flags    Flags
	step     int
	question int
	done     bool
}

// NewSession starts a session at the first presented question.
func NewSession(flow *Flow, flags Flags) *Session {
	if flags == nil {
		flags = Flags{}
	}
	s := &Session{flow: flow, flags: flags}
	s.settle()
	return s
}

// Restore rebuilds a session from a checkpoint produced by Checkpoint.
// Checkpoints past the last question restore a completed session.
func Restore(flow *Flow, flags Flags, checkpoint int) *Session {
	s := NewSession(flow, flags)
	target := checkpoint - 1
	for target > 0 && !s.done && s.index() < target {
		s.advance()
	}
	return s
}

// Flags returns a copy of the branch flags.
func (s *Session) Flags() Flags {
	return s.flags.Clone()
}

// SetFlag records a branch decision taken outside the question sequence.
func (s *Session) SetFlag(flag string, value bool) {
	s.flags[flag] = value
}

// Done reports whether the last question was answered.
func (s *Session) Done() bool {
	return s.done
}

// StepType is the type of the step under the cursor, or "" when done.
func (s *Session) StepType() string {
	if s.done {
		return ""
	}
	return s.flow.Steps[s.step].Type
}

// Current returns the question under the cursor.
func (s *Session) Current() (Question, bool) {
	if s.done {
		return Question{}, false
	}
	qs := s.flow.Steps[s.step].active(s.flags)
	if s.question >= len(qs) {
		return Question{}, false
	}
	return qs[s.question], true
}

// Position reports the cursor and progress.
func (s *Session) Position() Position {
	return Position{
		Step:     s.step,
		Question: s.question,
		StepType: s.StepType(),
		Index:    s.index(),
		Total:    s.flow.Total(s.flags),
		Done:     s.done,
	}
}

// Checkpoint is the 1-based flattened question index.
func (s *Session) Checkpoint() int {
	return s.index() + 1
}

// Next validates value for the current question, records branch flags and
// advances. A rejected answer leaves the cursor in place.
func (s *Session) Next(value string) (Answer, error) {
	q, ok := s.Current()
	if !ok {
		return Answer{}, ErrComplete
	}
	if err := Validate(q, value); err != nil {
		return Answer{}, err
	}
	value = strings.TrimSpace(value)
	if q.Flag != "" {
		if b, err := parseBool(value); err == nil {
			s.flags[q.Flag] = b
		}
	}
	stepType := s.flow.Steps[s.step].Type
	ans := Answer{Key: AnswerKey(stepType, q.Field), StepType: stepType, Field: q.Field, Value: value}
	s.advance()
	return ans, nil
}

// Back moves to the previous question. It returns false at the first question.
func (s *Session) Back() bool {
	if s.done {
		return s.toLast()
	}
	if s.question > 0 {
		s.question--
		return true
	}
	for i := s.step - 1; i >= 0; i-- {
		if n := len(s.flow.Steps[i].active(s.flags)); n > 0 {
			s.step = i
			s.question = n - 1
			return true
		}
	}
	return false
}

// SkipType moves the cursor past the remaining questions of steps of type t.
func (s *Session) SkipType(t string) {
	s.skipType(t)
	s.settle()
}

func (s *Session) skipType(t string) {
	for s.step < len(s.flow.Steps) && s.flow.Steps[s.step].Type == t {
		s.step++
		s.question = 0
	}
}

func (s *Session) advance() {
	if s.done {
		return
	}
	s.question++
	if s.question >= len(s.flow.Steps[s.step].active(s.flags)) {
		s.step++
		s.question = 0
	}
	s.settle()
}

// settle applies step-entry modes until the cursor rests on a question.
func (s *Session) settle() {
	for s.step < len(s.flow.Steps) {
		st := s.flow.Steps[s.step]
		if st.mode(s.flags) == ModeSkip {
			s.skipType(st.Type)
			continue
		}
		if len(st.active(s.flags)) > 0 {
			break
		}
		s.step++
		s.question = 0
	}
	s.done = s.step >= len(s.flow.Steps)
}

func (s *Session) toLast() bool {
	for i := len(s.flow.Steps) - 1; i >= 0; i-- {
		if n := len(s.flow.Steps[i].active(s.flags)); n > 0 {
			s.step = i
			s.question = n - 1
			s.done = false
			return true
		}
	}
	return false
}

func (s *Session) index() int {
	idx := 0
	for i := 0; i < s.step && i < len(s.flow.Steps); i++ {
		idx += len(s.flow.Steps[i].active(s.flags))
	}
	return idx + s.question
}
