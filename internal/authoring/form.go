// Package authoring implements the admin question-builder form: a small
// state machine keyed on the question type, with validation before save.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/devpath-labs/devpath/internal/question"
)

const (
	defaultOptionCount = 4
	minOptions         = 2
	maxOptions         = 6

	defaultCodeSnippet  = "// Write your code here"
	defaultCodeLanguage = "javascript"
)

// Validation rules, reported one at a time: the first violated rule blocks
// the save and the operator corrects and resubmits.
var (
	ErrEmptyText       = errors.New("question text cannot be empty")
	ErrNoOptionText    = errors.New("at least one option must have text")
	ErrNoCorrectOption = errors.New("a correct option must be selected")
	ErrEmptyAnswer     = errors.New("answer cannot be empty")

	ErrUnknownOption = errors.New("unknown option")
	ErrOptionBounds  = errors.New("option count out of bounds")
)

// ValidationError marks a recoverable authoring-form failure.
type ValidationError struct {
	Rule error
}

func (e *ValidationError) Error() string { return e.Rule.Error() }
func (e *ValidationError) Unwrap() error { return e.Rule }

// Saver persists finished questions. Satisfied by the question repository.
type Saver interface {
	Upsert(ctx context.Context, q question.Question) error
}

// Form is the authoring state for a single question. Switching type resets
// the variant-specific fields to fresh defaults while preserving the
// shared prompt text.
type Form struct {
	repo Saver

	editingID string // non-empty while editing an existing question
	qtype     question.Type

	text        string
	answer      string
	explanation string

	options []question.Option

	codeSnippet  string
	codeLanguage string

	// Optional targeting applied to saved questions.
	courseID string
	topicID  string
}

// NewForm creates a blank form editing a multiple-choice question.
func NewForm(repo Saver) *Form {
	f := &Form{repo: repo, qtype: question.TypeMultipleChoice}
	f.resetVariantFields()
	return f
}

// SetTarget associates saved questions with a course and topic.
func (f *Form) SetTarget(courseID, topicID string) {
	f.courseID = courseID
	f.topicID = topicID
}

// Type returns the question type currently being edited.
func (f *Form) Type() question.Type { return f.qtype }

// SetType switches the form to a different question type, resetting the
// variant-specific fields and keeping the prompt text.
func (f *Form) SetType(t question.Type) error {
	if !t.Valid() {
		return fmt.Errorf("unknown question type %q", t)
	}
	if t == f.qtype {
		return nil
	}
	f.qtype = t
	f.resetVariantFields()
	return nil
}

func (f *Form) SetText(text string)               { f.text = text }
func (f *Form) SetAnswer(answer string)           { f.answer = answer }
func (f *Form) SetExplanation(explanation string) { f.explanation = explanation }
func (f *Form) SetCodeSnippet(code string)        { f.codeSnippet = code }
func (f *Form) SetCodeLanguage(lang string)       { f.codeLanguage = lang }

// Options returns a copy of the current option list.
func (f *Form) Options() []question.Option {
	out := make([]question.Option, len(f.options))
	copy(out, f.options)
	return out
}

// SetOptionText updates the text of one option.
func (f *Form) SetOptionText(optionID, text string) error {
	for i := range f.options {
		if f.options[i].ID == optionID {
			f.options[i].Text = text
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
}

// SetCorrectOption marks one option correct and clears the flag on every
// other option, so at most one option is ever correct.
func (f *Form) SetCorrectOption(optionID string) error {
	found := false
	for i := range f.options {
		f.options[i].IsCorrect = f.options[i].ID == optionID
		found = found || f.options[i].IsCorrect
	}
	if !found {
		// Restore a consistent state: nothing selected.
		for i := range f.options {
			f.options[i].IsCorrect = false
		}
		return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	return nil
}

// AddOption appends a blank option, bounded to the maximum count.
func (f *Form) AddOption() error {
	if len(f.options) >= maxOptions {
		return fmt.Errorf("%w: at most %d options", ErrOptionBounds, maxOptions)
	}
	f.options = append(f.options, newOption())
	return nil
}

// RemoveOption deletes an option, bounded so the form never drops below a
// usable number of choices.
func (f *Form) RemoveOption(optionID string) error {
	if len(f.options) <= minOptions {
		return fmt.Errorf("%w: at least %d options", ErrOptionBounds, minOptions)
	}
	for i := range f.options {
		if f.options[i].ID == optionID {
			f.options = append(f.options[:i], f.options[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
}

// Load puts the form in edit mode for an existing question; saving will
// reuse its ID.
func (f *Form) Load(q question.Question) {
	f.qtype = q.Type
	f.resetVariantFields()

	f.editingID = q.ID
	f.text = q.Text
	f.explanation = q.Explanation
	f.courseID = q.CourseID
	f.topicID = q.TopicID

	switch q.Type {
	case question.TypeMultipleChoice:
		if len(q.Options) > 0 {
			f.options = make([]question.Option, len(q.Options))
			copy(f.options, q.Options)
			// Options arriving without IDs (e.g. from an API payload)
			// get minted ones; a correct option must stay addressable.
			for i := range f.options {
				if f.options[i].ID == "" {
					f.options[i].ID = "o-" + uuid.NewString()
				}
			}
		}
	case question.TypeShortAnswer:
		f.answer = q.Answer
	case question.TypeCodeChallenge:
		f.answer = q.Answer
		if q.CodeSnippet != "" {
			f.codeSnippet = q.CodeSnippet
		}
		if q.CodeLanguage != "" {
			f.codeLanguage = q.CodeLanguage
		}
	}
}

// Save validates the form, persists the question, and resets the form to
// blank defaults of the current type. On a validation failure the form
// state and the stored collection are left unchanged.
func (f *Form) Save(ctx context.Context) (question.Question, error) {
	if err := f.validate(); err != nil {
		return question.Question{}, err
	}

	q := f.build()
	if err := f.repo.Upsert(ctx, q); err != nil {
		return question.Question{}, fmt.Errorf("save question: %w", err)
	}

	f.editingID = ""
	f.text = ""
	f.resetVariantFields()
	return q, nil
}

func (f *Form) validate() error {
	if strings.TrimSpace(f.text) == "" {
		return &ValidationError{Rule: ErrEmptyText}
	}

	switch f.qtype {
	case question.TypeMultipleChoice:
		hasText := false
		hasCorrect := false
		for _, o := range f.options {
			if strings.TrimSpace(o.Text) != "" {
				hasText = true
			}
			if o.IsCorrect {
				hasCorrect = true
			}
		}
		if !hasText {
			return &ValidationError{Rule: ErrNoOptionText}
		}
		if !hasCorrect {
			return &ValidationError{Rule: ErrNoCorrectOption}
		}
	case question.TypeShortAnswer, question.TypeCodeChallenge:
		if strings.TrimSpace(f.answer) == "" {
			return &ValidationError{Rule: ErrEmptyAnswer}
		}
	}
	return nil
}

func (f *Form) build() question.Question {
	id := f.editingID
	if id == "" {
		id = "q-" + uuid.NewString()
	}

	q := question.Question{
		ID:       id,
		Type:     f.qtype,
		Text:     f.text,
		CourseID: f.courseID,
		TopicID:  f.topicID,
	}

	switch f.qtype {
	case question.TypeMultipleChoice:
		q.Options = make([]question.Option, len(f.options))
		copy(q.Options, f.options)
	case question.TypeShortAnswer:
		q.Answer = f.answer
		q.Explanation = f.explanation
	case question.TypeCodeChallenge:
		q.Answer = f.answer
		q.CodeSnippet = f.codeSnippet
		q.CodeLanguage = f.codeLanguage
		q.Explanation = f.explanation
	}
	return q
}

func (f *Form) resetVariantFields() {
	f.answer = ""
	f.explanation = ""
	f.codeSnippet = defaultCodeSnippet
	f.codeLanguage = defaultCodeLanguage

	f.options = make([]question.Option, 0, defaultOptionCount)
	for range defaultOptionCount {
		f.options = append(f.options, newOption())
	}
}

func newOption() question.Option {
	return question.Option{ID: "o-" + uuid.NewString()}
}

