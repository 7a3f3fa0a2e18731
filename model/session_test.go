package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToggleOptionIsInvolution(t *testing.T) {
	s := NewSession("Anna", 1)
	s.ToggleOption("A")
	s.ToggleOption("C")
	before := append([]string(nil), s.SelectedOptions...)

	s.ToggleOption("B")
	s.ToggleOption("B")
	assert.Equal(t, before, s.SelectedOptions)

	s.ToggleOption("A")
	assert.Equal(t, []string{"C"}, s.SelectedOptions)
}

func TestSessionSelectionSkipsOtherMarker(t *testing.T) {
	s := NewSession("Anna", 1)
	s.ToggleOption("B")
	s.ToggleOption(OtherOption)
	s.SelectedOptions = append(s.SelectedOptions, "custom")

	assert.Equal(t, "B, custom", s.Selection())
	assert.True(t, s.IsSelected(OtherOption))
}

func TestSessionSetAnswerGrowsAnswers(t *testing.T) {
	s := NewSession("Anna", 1)
	s.SetAnswer(2, "third")

	require.Len(t, s.Answers, 3)
	a, ok := s.Answer(2)
	assert.True(t, ok)
	assert.Equal(t, "third", a)

	_, ok = s.Answer(5)
	assert.False(t, ok)
}

func TestSessionCloneIsIndependent(t *testing.T) {
	s := NewSession("Anna", 1)
	s.SetAnswer(0, "x")
	s.ToggleOption("A")

	c := s.Clone()
	c.Answers[0] = "y"
	c.ToggleOption("B")

	assert.Equal(t, "x", s.Answers[0])
	assert.Equal(t, []string{"A"}, s.SelectedOptions)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateNoSession, StateOf(nil))

	s := NewSession("Anna", 1)
	assert.Equal(t, StateAwaitingAnswer, StateOf(s))

	s.AwaitingOtherText = true
	assert.Equal(t, StateAwaitingOtherText, StateOf(s))
}
