package course

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/devpath-labs/devpath/internal/question"
	"github.com/devpath-labs/devpath/internal/store"
)

// Repository persists courses as a single id-keyed mapping in the courses
// bucket. On first access with no stored data it seeds the built-in
// starter catalog and persists it before returning.
type Repository struct {
	store store.Store
}

// NewRepository creates a course repository over the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// ListAll returns the full course mapping. A missing or malformed bucket
// triggers the one-time seeding of the default catalog.
func (r *Repository) ListAll(ctx context.Context) map[string]Course {
	data, err := r.store.Read(ctx, store.BucketCourses)
	if err == nil {
		var courses map[string]Course
		if jsonErr := json.Unmarshal(data, &courses); jsonErr == nil {
			return courses
		}
		// Malformed stored value; fall through to defaults as if empty.
	}

	courses := DefaultCatalog()
	if err := r.persist(ctx, courses); err != nil {
		slog.Warn("seeding default catalog failed", "error", err)
	}
	return courses
}

// Get returns the course with the given ID.
func (r *Repository) Get(ctx context.Context, id string) (Course, bool) {
	c, ok := r.ListAll(ctx)[id]
	return c, ok
}

// Upsert validates and stores the course under the given ID, replacing any
// existing entry. Topic ordering is preserved exactly as authored.
func (r *Repository) Upsert(ctx context.Context, id string, c Course) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	c.ID = id
	if err := c.Validate(); err != nil {
		return err
	}

	courses := r.ListAll(ctx)
	courses[id] = c
	return r.persist(ctx, courses)
}

// QuestionSource yields the questions tagged with a topic ID. Satisfied by
// the question repository.
type QuestionSource interface {
	FindByTopic(ctx context.Context, topicID string) []question.Question
}

// GetTopic returns a topic with its question cache recomputed from the
// question source. The embedded question list is never trusted as stored
// truth.
func (r *Repository) GetTopic(ctx context.Context, courseID, topicID string, qs QuestionSource) (Topic, bool) {
	c, ok := r.Get(ctx, courseID)
	if !ok {
		return Topic{}, false
	}
	for _, topic := range c.Content {
		if topic.ID == topicID {
			topic.Questions = qs.FindByTopic(ctx, topicID)
			return topic, true
		}
	}
	return Topic{}, false
}

// Remove deletes the course with the given ID and persists. Removing an
// unknown ID is a no-op.
func (r *Repository) Remove(ctx context.Context, id string) error {
	courses := r.ListAll(ctx)
	delete(courses, id)
	return r.persist(ctx, courses)
}

func (r *Repository) persist(ctx context.Context, courses map[string]Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("marshal courses: %w", err)
	}
	if err := r.store.Write(ctx, store.BucketCourses, data); err != nil {
		return fmt.Errorf("persist courses: %w", err)
	}
	return nil
}
