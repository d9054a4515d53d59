package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaVersionCurrent tags newly written reviews. The legacy backend
// kept two parallel review shapes; here a single versioned entity covers
// both, and the readers do not care which version a row carries.
const SchemaVersionCurrent = 2

var ErrSelectionNotAllowed = errors.New("selection is not permitted for this question and star")

type Review struct {
	ID            int64      `json:"id"`
	BusinessID    int64      `json:"business_id"`
	Rate          int        `json:"rate"` // 1-5
	Comment       NullString `json:"comment" swaggertype:"string"`
	UserID        NullInt64  `json:"user_id" swaggertype:"integer"`
	GuestID       NullString `json:"guest_id" swaggertype:"string"`
	DisplayOrder  int        `json:"display_order"`
	SchemaVersion int        `json:"schema_version"`
	CreatedAt     time.Time  `json:"created_at"`

	// Joined fields
	AuthorName string `json:"author_name,omitempty"`
}

// ReviewValue is one answer selection: which star a reviewer picked for
// a question, optionally qualified by a tag.
type ReviewValue struct {
	ID         int64     `json:"id"`
	ReviewID   int64     `json:"review_id"`
	QuestionID int64     `json:"question_id"`
	StarID     int64     `json:"star_id"`
	TagID      NullInt64 `json:"tag_id" swaggertype:"integer"`
}

type ReviewStore struct {
	db *pgxpool.Pool
}

// Create inserts the review and its selections in one transaction. Each
// selection must target a question of the same business, and a tagged
// selection must match a permitted (question, star, tag) triple.
func (s *ReviewStore) Create(ctx context.Context, review *Review, selections []ReviewValue) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO reviews (business_id, rate, comment, user_id, guest_id, display_order, schema_version)
        VALUES ($1, $2, $3, $4, $5,
                (SELECT COALESCE(MAX(display_order), 0) + 1 FROM reviews WHERE business_id = $1),
                $6)
        RETURNING id, display_order, created_at
    `
	err = tx.QueryRow(ctx, query,
		review.BusinessID,
		review.Rate,
		nullableString(review.Comment),
		nullableInt64(review.UserID),
		nullableString(review.GuestID),
		SchemaVersionCurrent,
	).Scan(&review.ID, &review.DisplayOrder, &review.CreatedAt)
	if err != nil {
		return err
	}
	review.SchemaVersion = SchemaVersionCurrent

	for i := range selections {
		sel := &selections[i]
		sel.ReviewID = review.ID

		var allowed bool
		check := `
            SELECT EXISTS (
              SELECT 1 FROM questions q
              WHERE q.id = $1 AND q.business_id = $2
            ) AND (
              $4::bigint IS NULL OR EXISTS (
                SELECT 1 FROM star_tag_questions stq
                WHERE stq.question_id = $1 AND stq.star_id = $3 AND stq.tag_id = $4
              )
            )
        `
		err = tx.QueryRow(ctx, check, sel.QuestionID, review.BusinessID, sel.StarID, nullableInt64(sel.TagID)).Scan(&allowed)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrSelectionNotAllowed
		}

		insert := `
            INSERT INTO review_values (review_id, question_id, star_id, tag_id)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `
		err = tx.QueryRow(ctx, insert, sel.ReviewID, sel.QuestionID, sel.StarID, nullableInt64(sel.TagID)).Scan(&sel.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *ReviewStore) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT r.id, r.business_id, r.rate, r.comment, r.user_id, r.guest_id,
               r.display_order, r.schema_version, r.created_at,
               COALESCE(u.first_name, ''),
               COUNT(*) OVER ()
        FROM reviews r
        LEFT JOIN users u ON u.id = r.user_id
        WHERE r.business_id = $1
        ORDER BY r.display_order ASC
        LIMIT $2 OFFSET $3
    `
	rows, err := s.db.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []Review
	var total int
	for rows.Next() {
		var review Review
		var comment, guestID *string
		var userID *int64
		err := rows.Scan(
			&review.ID,
			&review.BusinessID,
			&review.Rate,
			&comment,
			&userID,
			&guestID,
			&review.DisplayOrder,
			&review.SchemaVersion,
			&review.CreatedAt,
			&review.AuthorName,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		if comment != nil {
			review.Comment = NullString{Value: *comment, Valid: true}
		}
		if guestID != nil {
			review.GuestID = NullString{Value: *guestID, Valid: true}
		}
		if userID != nil {
			review.UserID = NullInt64{Value: *userID, Valid: true}
		}
		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

// Delete removes a review on behalf of the business owner. Selections go
// with it via ON DELETE CASCADE.
func (s *ReviewStore) Delete(ctx context.Context, reviewID, businessOwnerID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        DELETE FROM reviews r
        USING businesses b
        WHERE r.id = $1 AND b.id = r.business_id AND b.owner_id = $2
    `
	result, err := s.db.Exec(ctx, query, reviewID, businessOwnerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// pgx maps nil pointers to SQL NULL; these unwrap the swagger-friendly
// null wrappers for writes.
func nullableString(ns NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.Value
}

func nullableInt64(ni NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Value
}
