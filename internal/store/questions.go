package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Question struct {
	ID         int64     `json:"id"`
	BusinessID NullInt64 `json:"business_id" swaggertype:"integer"`
	Label      string    `json:"label"`
	IsDefault  bool      `json:"is_default"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// StarTag is one permitted (star, tag) pair on a question.
type StarTag struct {
	QuestionID int64 `json:"question_id"`
	Star       Star  `json:"star"`
	Tag        Tag   `json:"tag"`
}

type QuestionStore struct {
	db *pgxpool.Pool
}

func (s *QuestionStore) Create(ctx context.Context, q *Question) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO questions (business_id, label, is_default)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return s.db.QueryRow(ctx, query, nullableInt64(q.BusinessID), q.Label, q.IsDefault).Scan(&q.ID)
}

func (s *QuestionStore) ListByBusiness(ctx context.Context, businessID int64) ([]Question, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, business_id, label, is_default
        FROM questions
        WHERE business_id = $1 OR is_default = true
        ORDER BY id ASC
    `
	rows, err := s.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var bID *int64
		if err := rows.Scan(&q.ID, &bID, &q.Label, &q.IsDefault); err != nil {
			return nil, err
		}
		if bID != nil {
			q.BusinessID = NullInt64{Value: *bID, Valid: true}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *QuestionStore) CreateTag(ctx context.Context, t *Tag) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO tags (label) VALUES ($1)
        ON CONFLICT (label) DO UPDATE SET label = EXCLUDED.label
        RETURNING id
    `
	return s.db.QueryRow(ctx, query, t.Label).Scan(&t.ID)
}

func (s *QuestionStore) ListTags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT id, label FROM tags ORDER BY label ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *QuestionStore) AddStarTag(ctx context.Context, questionID, starID, tagID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO star_tag_questions (question_id, star_id, tag_id)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING
    `
	result, err := s.db.Exec(ctx, query, questionID, starID, tagID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *QuestionStore) ListStarTags(ctx context.Context, questionID int64) ([]StarTag, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT stq.question_id,
               s.id, s.value, s.is_default, s.business_id,
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

	var assocs []StarTag
	for rows.Next() {
		var st StarTag
		var starBusinessID *int64
		err := rows.Scan(
			&st.QuestionID,
			&st.Star.ID, &st.Star.Value, &st.Star.IsDefault, &starBusinessID,
			&st.Tag.ID, &st.Tag.Label,
		)
		if err != nil {
			return nil, err
		}
		if starBusinessID != nil {
			st.Star.BusinessID = NullInt64{Value: *starBusinessID, Valid: true}
		}
		assocs = append(assocs, st)
	}
	return assocs, rows.Err()
}

// TripleAllowed reports whether the (question, star, tag) triple may be
// recorded on a selection. An untagged selection only needs the
// question to exist.
func (s *QuestionStore) TripleAllowed(ctx context.Context, questionID, starID int64, tagID *int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if tagID == nil {
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, questionID).Scan(&exists)
		if err != nil && errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return exists, err
	}

	var allowed bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM star_tag_questions
          WHERE question_id = $1 AND star_id = $2 AND tag_id = $3
        )
    `
	err := s.db.QueryRow(ctx, query, questionID, starID, *tagID).Scan(&allowed)
	return allowed, err
}
