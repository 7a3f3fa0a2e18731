package model

// Inbound events, already decoded from the chat transport.

type StartCommand struct {
	UserID      int64
	DisplayName string
	ChannelID   int64
}

type TextMessage struct {
	UserID    int64
	ChannelID int64
	Text      string
}

type ControlInteraction struct {
	UserID        int64
	ChannelID     int64
	MessageRef    MessageRef
	InteractionID string
	Action        Action
}

// MessageRef addresses a message that carries a keyboard.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Action is a decoded keyboard interaction. The set of implementations is closed.
type Action interface {
	isAction()
}

// ToggleOption flips Options[Index] of the multi-select question at Step.
type ToggleOption struct {
	Step  int
	Index int
}

// ToggleOther flips the "other" option of the multi-select question at Step.
type ToggleOther struct {
	Step int
}

// Confirm finishes the multi-select question at Step.
type Confirm struct {
	Step int
}

// ChooseSingle answers the single-select question at Step with Options[Index].
type ChooseSingle struct {
	Step  int
	Index int
}

type Cancel struct{}

func (ToggleOption) isAction() {}
func (ToggleOther) isAction()  {}
func (Confirm) isAction()      {}
func (ChooseSingle) isAction() {}
func (Cancel) isAction()       {}

// TextOptions controls how outbound text is rendered.
type TextOptions struct {
	HTML bool
}

// AckOptions controls the acknowledgment of a keyboard interaction.
type AckOptions struct {
	Text      string
	ShowAlert bool
}
