// Package course defines the course and topic model and its repository.
package course

import (
	"errors"
	"fmt"

	"github.com/devpath-labs/devpath/internal/question"
)

// FileType classifies a downloadable topic resource.
type FileType string

const (
	FilePDF        FileType = "pdf"
	FileCode       FileType = "code"
	FileNotes      FileType = "notes"
	FileCheatsheet FileType = "cheatsheet"
)

// Valid reports whether t is a known resource file type.
func (t FileType) Valid() bool {
	switch t {
	case FilePDF, FileCode, FileNotes, FileCheatsheet:
		return true
	}
	return false
}

// Resource is a downloadable file attached to a topic.
type Resource struct {
	Label    string   `json:"label" yaml:"label"`
	FileURL  string   `json:"fileUrl" yaml:"fileUrl"`
	FileType FileType `json:"fileType" yaml:"fileType"`
}

// CodeExample is a highlighted code listing attached to a topic.
type CodeExample struct {
	Title       string `json:"title" yaml:"title"`
	Code        string `json:"code" yaml:"code"`
	Language    string `json:"language" yaml:"language"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Topic is a single lesson unit embedded in a course's content list.
//
// Questions is a read-through cache: it is recomputed from the question
// repository by topic ID on every load and is never treated as stored
// truth.
type Topic struct {
	ID           string              `json:"id" yaml:"id"`
	Title        string              `json:"title" yaml:"title"`
	YoutubeID    string              `json:"youtubeId,omitempty" yaml:"youtubeId,omitempty"`
	Description  string              `json:"description,omitempty" yaml:"description,omitempty"`
	Resources    []Resource          `json:"resources,omitempty" yaml:"resources,omitempty"`
	CodeExamples []CodeExample       `json:"codeExamples,omitempty" yaml:"codeExamples,omitempty"`
	Questions    []question.Question `json:"questions,omitempty" yaml:"-"`
}

// Course is a complete course with ordered topic content. The ID is chosen
// by the author and immutable once created.
type Course struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Banner      string  `json:"banner,omitempty" yaml:"banner,omitempty"`
	Content     []Topic `json:"content" yaml:"content"`
}

// ErrInvalid wraps course shape violations rejected at the repository
// boundary.
var ErrInvalid = errors.New("invalid course")

// Validate checks the course shape before it is persisted.
func (c Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Content))
	for _, topic := range c.Content {
		if topic.ID == "" {
			return fmt.Errorf("%w: topic id is required", ErrInvalid)
		}
		if seen[topic.ID] {
			return fmt.Errorf("%w: duplicate topic id %q", ErrInvalid, topic.ID)
		}
		seen[topic.ID] = true
		for _, res := range topic.Resources {
			if !res.FileType.Valid() {
				return fmt.Errorf("%w: unknown resource file type %q", ErrInvalid, res.FileType)
			}
		}
	}
	return nil
}
