package question

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Questions"

var xlsxHeader = []string{
	"ID", "Type", "Text", "Course", "Topic",
	"Options", "Correct Option", "Answer", "Code Language", "Code Snippet", "Explanation",
}

// WriteXLSX writes the question collection as a spreadsheet, one row per
// question. Multiple-choice options are joined with " | " (a literal pipe
// in an option is escaped as `\|`) and the correct option is recorded by
// its text.
func WriteXLSX(w io.Writer, questions []Question) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, q := range questions {
		var optionTexts []string
		var correct string
		for _, o := range q.Options {
			optionTexts = append(optionTexts, optionEscaper.Replace(o.Text))
			if o.IsCorrect && correct == "" {
				correct = o.Text
			}
		}

		row := []interface{}{
			q.ID, string(q.Type), q.Text, q.CourseID, q.TopicID,
			strings.Join(optionTexts, " | "), correct,
			q.Answer, q.CodeLanguage, q.CodeSnippet, q.Explanation,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadXLSX parses a spreadsheet produced by WriteXLSX back into questions.
// Rows with an empty type or text are skipped.
func ReadXLSX(r io.Reader) ([]Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", xlsxSheet, err)
	}

	var questions []Question
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		col := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}

		q := Question{
			ID:           col(0),
			Type:         Type(col(1)),
			Text:         col(2),
			CourseID:     col(3),
			TopicID:      col(4),
			Answer:       col(7),
			CodeLanguage: col(8),
			CodeSnippet:  col(9),
			Explanation:  col(10),
		}
		if !q.Type.Valid() || q.Text == "" {
			continue
		}

		if q.Type == TypeMultipleChoice {
			correct := col(6)
			marked := false
			for n, text := range splitOptions(col(5)) {
				text = strings.TrimSpace(text)
				if text == "" {
					continue
				}
				// Duplicate texts must not yield two correct options.
				isCorrect := !marked && text == correct
				if isCorrect {
					marked = true
				}
				q.Options = append(q.Options, Option{
					ID:        fmt.Sprintf("%s-o%d", q.ID, n+1),
					Text:      text,
					IsCorrect: isCorrect,
				})
			}
		}

		questions = append(questions, q)
	}
	return questions, nil
}

// optionEscaper protects the option-cell separator: a literal backslash
// or pipe inside an option text is backslash-escaped on export.
var optionEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// splitOptions splits an option cell on unescaped pipes and undoes the
// export escaping.
func splitOptions(s string) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			if r != '|' && r != '\\' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	return append(parts, b.String())
}
