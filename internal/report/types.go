// Package report computes rating distributions, per-question star/tag
// breakdowns and full review reports for a business. It is independent of
// the HTTP layer and of pgx: all reads go through the Store interface, so
// the same engine serves live requests, scheduled report jobs and tests.
package report

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrInvalidWindow    = errors.New("invalid window: start is after end")
)

// Window is an optional date filter on review created_at. Both ends are
// inclusive: a review stamped exactly at Start or End is counted.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects a backwards window before any query is issued.
// A nil window means "all history" and is always valid.
func (w *Window) Validate() error {
	if w == nil {
		return nil
	}
	if w.Start.After(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether t falls inside the window (inclusive ends).
func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// Star is one selectable rating level. Defaults are shared across
// businesses (BusinessID nil); customized stars belong to one business.
type Star struct {
	ID         int64  `json:"id"`
	Value      int    `json:"value"`
	IsDefault  bool   `json:"is_default"`
	BusinessID *int64 `json:"business_id,omitempty"`
}

// Question is a rateable aspect a business defines for feedback. Only
// non-default questions (owned by a business) participate in reports.
type Question struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id"`
	Label      string `json:"label"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// StarTag is one (star, tag) pair permitted on a question. The engine
// never counts a tag for a (question, star) pair outside these rows.
type StarTag struct {
	Star Star `json:"star"`
	Tag  Tag  `json:"tag"`
}

// Comment is a commented, non-guest review as it appears in a report.
type Comment struct {
	ReviewID     int64     `json:"review_id"`
	Rate         int       `json:"rate"`
	Body         string    `json:"body"`
	AuthorID     *int64    `json:"author_id,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// SelectionFilter narrows a selection count. BusinessID is required;
// nil pointer fields are unconstrained. Guest reviews are always
// excluded by the store, whatever the filter.
type SelectionFilter struct {
	BusinessID int64
	QuestionID *int64
	StarID     *int64
	TagID      *int64
	Window     *Window
}

// Store is the read contract the engine runs on. CountSelections counts
// distinct (review, question) answer selections matching the filter,
// deduplicated by review and question.
type Store interface {
	BusinessExists(ctx context.Context, businessID int64) (bool, error)
	CountSelections(ctx context.Context, f SelectionFilter) (int, error)
	ListStars(ctx context.Context, businessID int64) ([]Star, error)
	ListNonDefaultQuestions(ctx context.Context, businessID int64) ([]Question, error)
	ListStarTagAssociations(ctx context.Context, questionID int64) ([]StarTag, error)
	ListCommentedReviews(ctx context.Context, businessID int64, w *Window) ([]Comment, error)
}

// StarCount is one bucket of the overall distribution. Catalog stars
// sharing a value (default plus business-specific) are merged.
type StarCount struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// RatingSummary is the lightweight dashboard aggregate.
type RatingSummary struct {
	BusinessID   int64       `json:"business_id"`
	Distribution []StarCount `json:"distribution"`
	Total        int         `json:"total_selections"`
	Average      float64     `json:"average"`
}

// StarBreakdown is one star's slice of a question breakdown. TagRatings
// lists only tags that passed the double gate: their exact
// (question, star, tag) count and the star-scoped total are both > 0.
type StarBreakdown struct {
	Star       Star  `json:"star"`
	StarsCount int   `json:"stars_count"`
	TagRatings []Tag `json:"tag_ratings"`
}

type QuestionBreakdown struct {
	Question   Question        `json:"question"`
	Rating     float64         `json:"rating"`
	Stars      []StarBreakdown `json:"stars"`
	TagsRating []Tag           `json:"tags_rating"`
}

// Overall mirrors RatingSummary plus the commented-review listing.
type Overall struct {
	Distribution []StarCount `json:"distribution"`
	Total        int         `json:"total_selections"`
	TotalRating  float64     `json:"total_rating"`
	Comments     []Comment   `json:"comments"`
}

// Report is the full per-business payload: overall aggregate plus one
// breakdown per non-default question.
type Report struct {
	BusinessID int64               `json:"business_id"`
	Window     *Window             `json:"window,omitempty"`
	Overall    Overall             `json:"overall"`
	Questions  []QuestionBreakdown `json:"questions"`
}
