package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdesk/internal/report"
)

// ReportDataStore implements report.Store over the relational schema.
// Guest reviews never reach an aggregate, so every query here pins
// guest_id IS NULL. The window filter is inclusive on both ends.
type ReportDataStore struct {
	db *pgxpool.Pool
}

func (s *ReportDataStore) BusinessExists(ctx context.Context, businessID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, businessID).Scan(&exists)
	return exists, err
}

// CountSelections counts distinct (review, question) answer selections
// matching the filter. Distinctness guards against legacy rows that
// recorded the same answer more than once.
func (s *ReportDataStore) CountSelections(ctx context.Context, f report.SelectionFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT COUNT(DISTINCT (rv.review_id, rv.question_id))
        FROM review_values rv
        JOIN reviews r ON r.id = rv.review_id
        WHERE r.business_id = $1 AND r.guest_id IS NULL
    `
	args := []any{f.BusinessID}
	argCounter := 2

	if f.QuestionID != nil {
		query += fmt.Sprintf(" AND rv.question_id = $%d", argCounter)
		args = append(args, *f.QuestionID)
		argCounter++
	}
	if f.StarID != nil {
		query += fmt.Sprintf(" AND rv.star_id = $%d", argCounter)
		args = append(args, *f.StarID)
		argCounter++
	}
	if f.TagID != nil {
		query += fmt.Sprintf(" AND rv.tag_id = $%d", argCounter)
		args = append(args, *f.TagID)
		argCounter++
	}
	if f.Window != nil {
		query += fmt.Sprintf(" AND r.created_at >= $%d AND r.created_at <= $%d", argCounter, argCounter+1)
		args = append(args, f.Window.Start, f.Window.End)
	}

	var count int
	err := s.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *ReportDataStore) ListStars(ctx context.Context, businessID int64) ([]report.Star, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, value, is_default, business_id
        FROM stars
        WHERE is_default = true OR business_id = $1
        ORDER BY value ASC, id ASC
    `
	rows, err := s.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stars []report.Star
	for rows.Next() {
		var star report.Star
		if err := rows.Scan(&star.ID, &star.Value, &star.IsDefault, &star.BusinessID); err != nil {
			return nil, err
		}
		stars = append(stars, star)
	}
	return stars, rows.Err()
}

func (s *ReportDataStore) ListNonDefaultQuestions(ctx context.Context, businessID int64) ([]report.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, business_id, label
        FROM questions
        WHERE business_id = $1 AND is_default = false
        ORDER BY id ASC
    `
	rows, err := s.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []report.Question
	for rows.Next() {
		var q report.Question
		if err := rows.Scan(&q.ID, &q.BusinessID, &q.Label); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *ReportDataStore) ListStarTagAssociations(ctx context.Context, questionID int64) ([]report.StarTag, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT s.id, s.value, s.is_default, s.business_id,
               t.id, t.label
        FROM star_tag_questions stq
        JOIN stars s ON s.id = stq.star_id
        JOIN tags t ON t.id = stq.tag_id
        WHERE stq.question_id = $1
        ORDER BY s.value ASC, t.label ASC
    `
	rows, err := s.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []report.StarTag
	for rows.Next() {
		var st report.StarTag
		err := rows.Scan(
			&st.Star.ID, &st.Star.Value, &st.Star.IsDefault, &st.Star.BusinessID,
			&st.Tag.ID, &st.Tag.Label,
		)
		if err != nil {
			return nil, err
		}
		assocs = append(assocs, st)
	}
	return assocs, rows.Err()
}

func (s *ReportDataStore) ListCommentedReviews(ctx context.Context, businessID int64, w *report.Window) ([]report.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, rate, comment, user_id, display_order, created_at
        FROM reviews
        WHERE business_id = $1 AND guest_id IS NULL AND comment IS NOT NULL
    `
	args := []any{businessID}
	if w != nil {
		query += " AND created_at >= $2 AND created_at <= $3"
		args = append(args, w.Start, w.End)
	}
	query += " ORDER BY display_order ASC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []report.Comment{}
	for rows.Next() {
		var c report.Comment
		err := rows.Scan(&c.ReviewID, &c.Rate, &c.Body, &c.AuthorID, &c.DisplayOrder, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
