package model

import (
	"slices"
	"strings"
)

// OtherOption marks a pending free-text "other" value in Session.SelectedOptions.
const OtherOption = "__other__"

// AnyVersion makes a delete unconditional.
const AnyVersion int64 = -1

// Session is the persisted progress of one user through the brief.
type Session struct {
	Step              int      `json:"step"`
	Answers           []string `json:"answers"`
	SelectedOptions   []string `json:"selectedOptions"`
	AwaitingOtherText bool     `json:"awaitingOtherText"`
	DisplayName       string   `json:"displayName"`
	ChannelID         int64    `json:"channelId"`

	// Version is managed by the session store. Zero means the session
	// has never been written and a save overwrites whatever is stored.
	Version int64 `json:"version"`
}

func NewSession(displayName string, channelID int64) *Session {
	return &Session{
		Answers:         []string{},
		SelectedOptions: []string{},
		DisplayName:     displayName,
		ChannelID:       channelID,
	}
}

// State is the position of a user in the brief state machine.
type State int

const (
	StateNoSession State = iota
	StateAwaitingAnswer
	StateAwaitingOtherText
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateAwaitingOtherText:
		return "awaiting_other_text"
	default:
		return "unknown"
	}
}

func StateOf(s *Session) State {
	switch {
	case s == nil:
		return StateNoSession
	case s.AwaitingOtherText:
		return StateAwaitingOtherText
	default:
		return StateAwaitingAnswer
	}
}

// Answer returns the stored answer for step, if any.
func (s *Session) Answer(step int) (string, bool) {
	if step < 0 || step >= len(s.Answers) {
		return "", false
	}
	return s.Answers[step], true
}

// SetAnswer stores the answer for step, growing Answers as needed.
func (s *Session) SetAnswer(step int, answer string) {
	for len(s.Answers) <= step {
		s.Answers = append(s.Answers, "")
	}
	s.Answers[step] = answer
}

func (s *Session) IsSelected(option string) bool {
	return slices.Contains(s.SelectedOptions, option)
}

// ToggleOption removes option from the selection if present and appends it otherwise.
func (s *Session) ToggleOption(option string) {
	if i := slices.Index(s.SelectedOptions, option); i >= 0 {
		s.SelectedOptions = slices.Delete(s.SelectedOptions, i, i+1)
		return
	}
	s.SelectedOptions = append(s.SelectedOptions, option)
}

// Selection joins the selected options for storage as an answer. The
// "other" marker is left out.
func (s *Session) Selection() string {
	values := make([]string, 0, len(s.SelectedOptions))
	for _, o := range s.SelectedOptions {
		if o != OtherOption {
			values = append(values, o)
		}
	}
	return strings.Join(values, ", ")
}

// ResetSelection clears per-question state on a step transition.
func (s *Session) ResetSelection() {
	s.SelectedOptions = []string{}
	s.AwaitingOtherText = false
}

func (s *Session) Clone() *Session {
	c := *s
	c.Answers = slices.Clone(s.Answers)
	c.SelectedOptions = slices.Clone(s.SelectedOptions)
	if c.Answers == nil {
		c.Answers = []string{}
	}
	if c.SelectedOptions == nil {
		c.SelectedOptions = []string{}
	}
	return &c
}
