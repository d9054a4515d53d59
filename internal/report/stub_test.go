package report

import (
	"context"
	"errors"
	"time"
)

var errStoreDown = errors.New("store down")

type stubReview struct {
	id           int64
	businessID   int64
	rate         int
	comment      string
	guest        bool
	displayOrder int
	createdAt    time.Time
}

type stubSelection struct {
	reviewID   int64
	questionID int64
	starID     int64
	tagID      *int64
}

// stubStore is an in-memory Store with real filter semantics, so the
// tests exercise the same counting rules the SQL adapter implements.
type stubStore struct {
	businesses map[int64]bool
	stars      []Star
	questions  []Question
	assocs     map[int64][]StarTag
	reviews    []stubReview
	selections []stubSelection

	failCounts bool
	calls      map[string]int
}

func newStubStore() *stubStore {
	return &stubStore{
		businesses: map[int64]bool{},
		assocs:     map[int64][]StarTag{},
		calls:      map[string]int{},
	}
}

func (s *stubStore) reviewByID(id int64) (stubReview, bool) {
	for _, r := range s.reviews {
		if r.id == id {
			return r, true
		}
	}
	return stubReview{}, false
}

func (s *stubStore) BusinessExists(ctx context.Context, businessID int64) (bool, error) {
	s.calls["BusinessExists"]++
	return s.businesses[businessID], nil
}

func (s *stubStore) CountSelections(ctx context.Context, f SelectionFilter) (int, error) {
	s.calls["CountSelections"]++
	if s.failCounts {
		return 0, errStoreDown
	}

	type pair struct{ review, question int64 }
	seen := map[pair]bool{}
	for _, sel := range s.selections {
		r, ok := s.reviewByID(sel.reviewID)
		if !ok || r.businessID != f.BusinessID || r.guest {
			continue
		}
		if !f.Window.Contains(r.createdAt) {
			continue
		}
		if f.QuestionID != nil && sel.questionID != *f.QuestionID {
			continue
		}
		if f.StarID != nil && sel.starID != *f.StarID {
			continue
		}
		if f.TagID != nil && (sel.tagID == nil || *sel.tagID != *f.TagID) {
			continue
		}
		seen[pair{sel.reviewID, sel.questionID}] = true
	}
	return len(seen), nil
}

func (s *stubStore) ListStars(ctx context.Context, businessID int64) ([]Star, error) {
	s.calls["ListStars"]++
	out := []Star{}
	for _, st := range s.stars {
		if st.IsDefault || (st.BusinessID != nil && *st.BusinessID == businessID) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubStore) ListNonDefaultQuestions(ctx context.Context, businessID int64) ([]Question, error) {
	s.calls["ListNonDefaultQuestions"]++
	out := []Question{}
	for _, q := range s.questions {
		if q.BusinessID == businessID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubStore) ListStarTagAssociations(ctx context.Context, questionID int64) ([]StarTag, error) {
	s.calls["ListStarTagAssociations"]++
	return s.assocs[questionID], nil
}

func (s *stubStore) ListCommentedReviews(ctx context.Context, businessID int64, w *Window) ([]Comment, error) {
	s.calls["ListCommentedReviews"]++
	out := []Comment{}
	for _, r := range s.reviews {
		if r.businessID != businessID || r.guest || r.comment == "" {
			continue
		}
		if !w.Contains(r.createdAt) {
			continue
		}
		out = append(out, Comment{
			ReviewID:     r.id,
			Rate:         r.rate,
			Body:         r.comment,
			DisplayOrder: r.displayOrder,
			CreatedAt:    r.createdAt,
		})
	}
	return out, nil
}

// defaultCatalog seeds business 1 with the five canonical star levels
// and one business question offering tags on stars 3 and 5.
func defaultCatalog() *stubStore {
	s := newStubStore()
	s.businesses[1] = true
	for v := 1; v <= 5; v++ {
		s.stars = append(s.stars, Star{ID: int64(v), Value: v, IsDefault: true})
	}
	s.questions = []Question{{ID: 10, BusinessID: 1, Label: "Service"}}
	s.assocs[10] = []StarTag{
		{Star: s.stars[4], Tag: Tag{ID: 100, Label: "friendly"}},
		{Star: s.stars[4], Tag: Tag{ID: 101, Label: "fast"}},
		{Star: s.stars[2], Tag: Tag{ID: 102, Label: "slow"}},
	}
	return s
}

func (s *stubStore) addReview(id int64, rate int, comment string, guest bool, createdAt time.Time) {
	s.reviews = append(s.reviews, stubReview{
		id:           id,
		businessID:   1,
		rate:         rate,
		comment:      comment,
		guest:        guest,
		displayOrder: len(s.reviews),
		createdAt:    createdAt,
	})
}

func (s *stubStore) addSelection(reviewID, questionID, starID int64, tagID *int64) {
	s.selections = append(s.selections, stubSelection{
		reviewID:   reviewID,
		questionID: questionID,
		starID:     starID,
		tagID:      tagID,
	})
}

func tagRef(id int64) *int64 { return &id }
