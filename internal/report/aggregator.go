package report

import (
	"context"
	"fmt"
	"sort"
)

// Engine computes summaries and reports for one Store. It holds no
// mutable state, so a single Engine is safe for concurrent use.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// BuildRatingSummary returns the per-star distribution and weighted
// average for a business, optionally windowed. A business with no
// reviews in range yields zero counts and average 0, never an error.
func (e *Engine) BuildRatingSummary(ctx context.Context, businessID int64, w *Window) (*RatingSummary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	exists, err := e.store.BusinessExists(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("check business %d: %w", businessID, err)
	}
	if !exists {
		return nil, ErrBusinessNotFound
	}

	counts := newCountCache(e.store)
	dist, total, average, err := e.distribution(ctx, counts, businessID, w)
	if err != nil {
		return nil, err
	}

	return &RatingSummary{
		BusinessID:   businessID,
		Distribution: dist,
		Total:        total,
		Average:      average,
	}, nil
}

// distribution walks the star catalog and counts selections per star,
// merging buckets that share a value. The average is the weighted mean
// over all buckets, 0 when nothing was selected.
func (e *Engine) distribution(ctx context.Context, counts *countCache, businessID int64, w *Window) ([]StarCount, int, float64, error) {
	stars, err := e.store.ListStars(ctx, businessID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list stars: %w", err)
	}

	byValue := make(map[int]int)
	for _, star := range stars {
		starID := star.ID
		n, err := counts.count(ctx, SelectionFilter{
			BusinessID: businessID,
			StarID:     &starID,
			Window:     w,
		})
		if err != nil {
			return nil, 0, 0, fmt.Errorf("count star %d selections: %w", star.ID, err)
		}
		// merge default and business-specific stars of the same value
		if _, ok := byValue[star.Value]; !ok {
			byValue[star.Value] = 0
		}
		byValue[star.Value] += n
	}

	values := make([]int, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Ints(values)

	dist := make([]StarCount, 0, len(values))
	var total, weighted int
	for _, v := range values {
		dist = append(dist, StarCount{Value: v, Count: byValue[v]})
		total += byValue[v]
		weighted += byValue[v] * v
	}

	var average float64
	if total > 0 {
		average = float64(weighted) / float64(total)
	}
	return dist, total, average, nil
}
