package report

import (
	"context"
	"fmt"
)

// breakdownQuestion builds one question's star/tag breakdown. Stars are
// processed in catalog order; running totals accumulate star by star and
// the final running average becomes the question rating.
func (e *Engine) breakdownQuestion(ctx context.Context, counts *countCache, businessID int64, q Question, w *Window) (QuestionBreakdown, error) {
	out := QuestionBreakdown{
		Question:   q,
		Stars:      []StarBreakdown{},
		TagsRating: []Tag{},
	}

	assocs, err := e.store.ListStarTagAssociations(ctx, q.ID)
	if err != nil {
		return out, fmt.Errorf("list star/tag associations for question %d: %w", q.ID, err)
	}

	// group permitted tags under their star, keeping first-seen order
	var starOrder []int64
	starsByID := make(map[int64]Star)
	tagsByStar := make(map[int64][]Tag)
	for _, a := range assocs {
		if _, seen := starsByID[a.Star.ID]; !seen {
			starsByID[a.Star.ID] = a.Star
			starOrder = append(starOrder, a.Star.ID)
		}
		tagsByStar[a.Star.ID] = append(tagsByStar[a.Star.ID], a.Tag)
	}

	questionID := q.ID
	seenTags := make(map[int64]bool)
	var weighted, total int

	for _, starID := range starOrder {
		star := starsByID[starID]
		sid := star.ID

		starTotal, err := counts.count(ctx, SelectionFilter{
			BusinessID: businessID,
			QuestionID: &questionID,
			StarID:     &sid,
			Window:     w,
		})
		if err != nil {
			return out, fmt.Errorf("count (question %d, star %d): %w", q.ID, star.ID, err)
		}

		weighted += starTotal * star.Value
		total += starTotal
		if total > 0 {
			out.Rating = float64(weighted) / float64(total)
		}

		sb := StarBreakdown{
			Star:       star,
			StarsCount: starTotal,
			TagRatings: []Tag{},
		}

		for _, tag := range tagsByStar[starID] {
			tid := tag.ID
			triple, err := counts.count(ctx, SelectionFilter{
				BusinessID: businessID,
				QuestionID: &questionID,
				StarID:     &sid,
				TagID:      &tid,
				Window:     w,
			})
			if err != nil {
				return out, fmt.Errorf("count (question %d, star %d, tag %d): %w", q.ID, star.ID, tag.ID, err)
			}

			// double gate: the exact triple and an independently read
			// star-scoped total must both be nonzero for the tag to
			// show up. The scoped read hits the memo cache.
			scoped, err := counts.count(ctx, SelectionFilter{
				BusinessID: businessID,
				QuestionID: &questionID,
				StarID:     &sid,
				Window:     w,
			})
			if err != nil {
				return out, fmt.Errorf("count (question %d, star %d) gate: %w", q.ID, star.ID, err)
			}
			if triple == 0 || scoped == 0 {
				continue
			}

			sb.TagRatings = append(sb.TagRatings, tag)
			if !seenTags[tag.ID] {
				seenTags[tag.ID] = true
				out.TagsRating = append(out.TagsRating, tag)
			}
		}

		out.Stars = append(out.Stars, sb)
	}

	return out, nil
}
