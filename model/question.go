package model

// QuestionKind defines how a brief question is answered
type QuestionKind int

const (
	QuestionKindFreeText QuestionKind = iota
	QuestionKindMultiSelect
	QuestionKindSingleSelect
)

func (k QuestionKind) String() string {
	switch k {
	case QuestionKindFreeText:
		return "free_text"
	case QuestionKindMultiSelect:
		return "multi_select"
	case QuestionKindSingleSelect:
		return "single_select"
	default:
		return "unknown"
	}
}

type Question struct {
	ID          int          // 1-based position in the catalog
	Text        string       // Prompt shown to the user
	Kind        QuestionKind // How the question is answered
	Options     []string     // Used for MultiSelect and SingleSelect
	AllowsOther bool         // MultiSelect only, adds a free-text option
	Hint        string       // Optional
}

// HasOptions reports whether the question is answered through a keyboard.
func (q Question) HasOptions() bool {
	return q.Kind == QuestionKindMultiSelect || q.Kind == QuestionKindSingleSelect
}
