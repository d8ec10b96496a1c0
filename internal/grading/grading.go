// Package grading checks a learner's response against a question.
//
// Matching is deliberately strict: multiple choice compares option IDs,
// and free-text answers must match the stored answer exactly after
// trimming and Unicode case folding. There is no partial credit, fuzzy
// matching, or tokenization.
package grading

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/devpath-labs/devpath/internal/question"
)

// ErrChecked is returned when a response is edited after checking.
var ErrChecked = errors.New("response already checked")

var foldCaser = cases.Fold()

// Normalize trims surrounding whitespace and case-folds a free-text
// answer. Interior whitespace stays significant.
func Normalize(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// Response is a learner's submitted answer to one question.
type Response struct {
	SelectedOptionID string // multipleChoice
	Answer           string // shortAnswer, codeChallenge
}

// Grade reports whether the response answers the question correctly.
// A multiple-choice question with no option flagged correct, or a response
// with no option selected, always grades incorrect.
func Grade(q question.Question, resp Response) bool {
	switch q.Type {
	case question.TypeMultipleChoice:
		if resp.SelectedOptionID == "" {
			return false
		}
		correct, ok := q.CorrectOption()
		return ok && resp.SelectedOptionID == correct.ID
	case question.TypeShortAnswer, question.TypeCodeChallenge:
		return Normalize(resp.Answer) == Normalize(q.Answer)
	}
	return false
}

// Session is the learner-facing state for one active question: the working
// response, the checked/revealed flags, and the result.
type Session struct {
	q        question.Question
	resp     Response
	checked  bool
	revealed bool
	correct  bool
}

// NewSession creates a session for the given question.
func NewSession(q question.Question) *Session {
	return &Session{q: q}
}

// Start switches the session to a new question, resetting the selection,
// free-text answer, checked and revealed flags, and the result.
func (s *Session) Start(q question.Question) {
	*s = Session{q: q}
}

// Question returns the active question.
func (s *Session) Question() question.Question { return s.q }

// SelectOption records the learner's multiple-choice selection. Locked
// once the response has been checked.
func (s *Session) SelectOption(optionID string) error {
	if s.checked {
		return ErrChecked
	}
	s.resp.SelectedOptionID = optionID
	return nil
}

// SetAnswer records the learner's free-text answer. Locked once the
// response has been checked.
func (s *Session) SetAnswer(answer string) error {
	if s.checked {
		return ErrChecked
	}
	s.resp.Answer = answer
	return nil
}

// Check grades the current response, marks the session checked, and
// returns the result. Checking twice returns the recorded result.
func (s *Session) Check() bool {
	if !s.checked {
		s.correct = Grade(s.q, s.resp)
		s.checked = true
	}
	return s.correct
}

// ToggleReveal flips the canonical-answer visibility, independent of
// correctness.
func (s *Session) ToggleReveal() { s.revealed = !s.revealed }

func (s *Session) Checked() bool  { return s.checked }
func (s *Session) Revealed() bool { return s.revealed }

// Correct reports the result of the last check; false before any check.
func (s *Session) Correct() bool { return s.checked && s.correct }
