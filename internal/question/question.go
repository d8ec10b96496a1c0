// Package question defines the quiz question model and its repository.
package question

// Type discriminates the question variants.
type Type string

const (
	TypeMultipleChoice Type = "multipleChoice"
	TypeShortAnswer    Type = "shortAnswer"
	TypeCodeChallenge  Type = "codeChallenge"
)

// Valid reports whether t is a known question type.
func (t Type) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeShortAnswer, TypeCodeChallenge:
		return true
	}
	return false
}

// Option is a single multiple-choice answer option.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a quiz question, tagged by Type. Variant-specific fields are
// populated according to the type: Options for multipleChoice, Answer (and
// optionally Explanation) for shortAnswer, and Answer plus CodeSnippet and
// CodeLanguage for codeChallenge.
type Question struct {
	ID           string   `json:"id"`
	Type         Type     `json:"type"`
	Text         string   `json:"text"`
	CourseID     string   `json:"courseId,omitempty"`
	TopicID      string   `json:"topicId,omitempty"`
	Options      []Option `json:"options,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	CodeSnippet  string   `json:"codeSnippet,omitempty"`
	CodeLanguage string   `json:"codeLanguage,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

// CorrectOption returns the option flagged correct, if any.
func (q Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}
