package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devpath-labs/devpath/internal/store"
)

// Repository persists the question collection as a single ordered list in
// the course_questions bucket. A missing or malformed bucket is treated as
// an empty collection; store read failures never surface to callers.
type Repository struct {
	store store.Store
}

// NewRepository creates a question repository over the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// ListAll returns the entire collection in insertion order.
func (r *Repository) ListAll(ctx context.Context) []Question {
	data, err := r.store.Read(ctx, store.BucketQuestions)
	if err != nil {
		return []Question{}
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return []Question{}
	}
	return questions
}

// Get returns the question with the given ID.
func (r *Repository) Get(ctx context.Context, id string) (Question, bool) {
	for _, q := range r.ListAll(ctx) {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Upsert replaces the question with a matching ID, or appends it, then
// persists the collection.
func (r *Repository) Upsert(ctx context.Context, q Question) error {
	questions := upsertInto(r.ListAll(ctx), q)
	return r.persist(ctx, questions)
}

// UpsertMany applies upsert semantics for each question with a single
// persist at the end.
func (r *Repository) UpsertMany(ctx context.Context, qs []Question) error {
	questions := r.ListAll(ctx)
	for _, q := range qs {
		questions = upsertInto(questions, q)
	}
	return r.persist(ctx, questions)
}

// Remove deletes the question with the given ID and persists. Removing an
// unknown ID is a no-op.
func (r *Repository) Remove(ctx context.Context, id string) error {
	questions := r.ListAll(ctx)
	kept := questions[:0]
	for _, q := range questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	return r.persist(ctx, kept)
}

// FindByTopic returns the questions tagged with the given topic ID, in
// collection order. An empty topic ID yields an empty result so untagged
// questions are never matched by accident.
func (r *Repository) FindByTopic(ctx context.Context, topicID string) []Question {
	if topicID == "" {
		return []Question{}
	}
	matched := []Question{}
	for _, q := range r.ListAll(ctx) {
		if q.TopicID == topicID {
			matched = append(matched, q)
		}
	}
	return matched
}

// FindByCourse returns the questions tagged with the given course ID.
func (r *Repository) FindByCourse(ctx context.Context, courseID string) []Question {
	if courseID == "" {
		return []Question{}
	}
	matched := []Question{}
	for _, q := range r.ListAll(ctx) {
		if q.CourseID == courseID {
			matched = append(matched, q)
		}
	}
	return matched
}

// FilterOptions narrows a question listing. Zero-valued fields match
// everything.
type FilterOptions struct {
	Type     Type
	TopicID  string
	CourseID string
	Search   string // case-insensitive substring over text and explanation
}

// Filter returns the questions matching the given options, in collection
// order.
func (r *Repository) Filter(ctx context.Context, opts FilterOptions) []Question {
	search := strings.ToLower(opts.Search)
	matched := []Question{}
	for _, q := range r.ListAll(ctx) {
		if opts.Type != "" && q.Type != opts.Type {
			continue
		}
		if opts.TopicID != "" && q.TopicID != opts.TopicID {
			continue
		}
		if opts.CourseID != "" && q.CourseID != opts.CourseID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(q.Text), search) &&
			!strings.Contains(strings.ToLower(q.Explanation), search) {
			continue
		}
		matched = append(matched, q)
	}
	return matched
}

func (r *Repository) persist(ctx context.Context, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := r.store.Write(ctx, store.BucketQuestions, data); err != nil {
		return fmt.Errorf("persist questions: %w", err)
	}
	return nil
}

func upsertInto(questions []Question, q Question) []Question {
	for i := range questions {
		if questions[i].ID == q.ID {
			questions[i] = q
			return questions
		}
	}
	return append(questions, q)
}
