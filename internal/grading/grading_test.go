package grading_test

import (
	"testing"

	"github.com/devpath-labs/devpath/internal/grading"
	"github.com/devpath-labs/devpath/internal/question"
)

func mcQuestion() question.Question {
	return question.Question{
		ID:   "q-mc",
		Type: question.TypeMultipleChoice,
		Text: "Pick the right one",
		Options: []question.Option{
			{ID: "o-1", Text: "wrong"},
			{ID: "o-2", Text: "right", IsCorrect: true},
			{ID: "o-3", Text: "also wrong"},
		},
	}
}

func TestGrade_MultipleChoice(t *testing.T) {
	q := mcQuestion()

	if !grading.Grade(q, grading.Response{SelectedOptionID: "o-2"}) {
		t.Error("Grade() = false for the correct option")
	}
	if grading.Grade(q, grading.Response{SelectedOptionID: "o-1"}) {
		t.Error("Grade() = true for a wrong option")
	}
	if grading.Grade(q, grading.Response{}) {
		t.Error("Grade() = true with no selection")
	}
}

func TestGrade_MultipleChoiceNoCorrectOption(t *testing.T) {
	q := mcQuestion()
	for i := range q.Options {
		q.Options[i].IsCorrect = false
	}

	// With no option flagged correct every check reports incorrect.
	for _, sel := range []string{"o-1", "o-2", "o-3", ""} {
		if grading.Grade(q, grading.Response{SelectedOptionID: sel}) {
			t.Errorf("Grade() = true for %q with no correct option", sel)
		}
	}
}

func TestGrade_ShortAnswerExactness(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		learner string
		want    bool
	}{
		{"trim-and-casefold", "paris", " Paris ", true},
		{"punctuation-differs", "paris!", "Paris ", false},
		{"interior-whitespace-significant", "return a+b;", "return a + b;", false},
		{"exact", "return a+b;", "return a+b;", true},
		{"trailing-newline", "return a+b;", "return a+b;\n", true},
		{"empty-both", "", "", true},
		{"unicode-fold", "STRASSE", "strasse", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question.Question{Type: question.TypeShortAnswer, Text: "x", Answer: tt.stored}
			got := grading.Grade(q, grading.Response{Answer: tt.learner})
			if got != tt.want {
				t.Errorf("Grade(%q vs stored %q) = %v, want %v", tt.learner, tt.stored, got, tt.want)
			}
		})
	}
}

func TestGrade_CodeChallengeUsesSameRule(t *testing.T) {
	q := question.Question{Type: question.TypeCodeChallenge, Text: "x", Answer: "return a+b;"}

	if !grading.Grade(q, grading.Response{Answer: "RETURN A+B;"}) {
		t.Error("Grade() = false, want case-folded match")
	}
	if grading.Grade(q, grading.Response{Answer: "return a + b;"}) {
		t.Error("Grade() = true, want whitespace-sensitive mismatch")
	}
}

func TestSession_CheckLocksResponse(t *testing.T) {
	s := grading.NewSession(mcQuestion())

	if err := s.SelectOption("o-2"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}
	if !s.Check() {
		t.Error("Check() = false for correct selection")
	}
	if !s.Checked() {
		t.Error("Checked() = false after Check()")
	}

	if err := s.SelectOption("o-1"); err != grading.ErrChecked {
		t.Errorf("SelectOption() after check error = %v, want ErrChecked", err)
	}
	if err := s.SetAnswer("late"); err != grading.ErrChecked {
		t.Errorf("SetAnswer() after check error = %v, want ErrChecked", err)
	}

	// Re-checking reports the recorded result.
	if !s.Check() {
		t.Error("second Check() = false, want recorded result")
	}
}

func TestSession_RevealIndependentOfCorrectness(t *testing.T) {
	s := grading.NewSession(mcQuestion())

	_ = s.SelectOption("o-1")
	if s.Check() {
		t.Fatal("Check() = true for wrong selection")
	}

	if s.Revealed() {
		t.Error("Revealed() = true before toggle")
	}
	s.ToggleReveal()
	if !s.Revealed() {
		t.Error("Revealed() = false after toggle")
	}
	s.ToggleReveal()
	if s.Revealed() {
		t.Error("Revealed() = true after second toggle")
	}
}

func TestSession_StartResetsEverything(t *testing.T) {
	s := grading.NewSession(mcQuestion())
	_ = s.SelectOption("o-2")
	s.Check()
	s.ToggleReveal()

	next := question.Question{ID: "q-sa", Type: question.TypeShortAnswer, Text: "y", Answer: "z"}
	s.Start(next)

	if s.Checked() || s.Revealed() || s.Correct() {
		t.Error("Start() did not reset checked/revealed/result state")
	}
	if s.Question().ID != "q-sa" {
		t.Errorf("Question().ID = %q, want q-sa", s.Question().ID)
	}
	if err := s.SetAnswer("z"); err != nil {
		t.Fatalf("SetAnswer() after Start error = %v", err)
	}
	if !s.Check() {
		t.Error("Check() = false after reset and correct answer")
	}
}

func TestNormalize(t *testing.T) {
	if got := grading.Normalize("  Hello World\n"); got != "hello world" {
		t.Errorf("Normalize() = %q, want %q", got, "hello world")
	}
}

func TestGrade_MultipleChoiceEmptySelectionAgainstEmptyID(t *testing.T) {
	// Legacy data may carry options with empty IDs. An empty selection
	// must still grade incorrect rather than matching the empty ID.
	q := question.Question{
		Type: question.TypeMultipleChoice,
		Text: "Pick one",
		Options: []question.Option{
			{Text: "wrong"},
			{Text: "right", IsCorrect: true},
		},
	}

	if grading.Grade(q, grading.Response{SelectedOptionID: ""}) {
		t.Error("Grade() = true for an empty selection")
	}
}
