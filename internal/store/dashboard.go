package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Overview struct {
	// Users
	TotalUsers       int64 `json:"total_users"`
	TotalActiveUsers int64 `json:"total_active_users"`

	// Businesses
	TotalBusinesses int64 `json:"total_businesses"`

	// Reviews
	TotalReviews          int64 `json:"total_reviews"`
	TotalGuestReviews     int64 `json:"total_guest_reviews"`
	TotalCommentedReviews int64 `json:"total_commented_reviews"`

	// Catalog
	TotalQuestions       int64 `json:"total_questions"`
	TotalCustomQuestions int64 `json:"total_custom_questions"`
	TotalTags            int64 `json:"total_tags"`
}

type DashboardStore struct {
	db *pgxpool.Pool
}

func (s *DashboardStore) GetOverview(ctx context.Context) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active = true),

			(SELECT COUNT(*) FROM businesses),

			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM reviews WHERE guest_id IS NOT NULL),
			(SELECT COUNT(*) FROM reviews WHERE comment IS NOT NULL),

			(SELECT COUNT(*) FROM questions),
			(SELECT COUNT(*) FROM questions WHERE is_default = false),
			(SELECT COUNT(*) FROM tags)
	`

	var o Overview
	err := s.db.QueryRow(ctx, q).Scan(
		&o.TotalUsers,
		&o.TotalActiveUsers,

		&o.TotalBusinesses,

		&o.TotalReviews,
		&o.TotalGuestReviews,
		&o.TotalCommentedReviews,

		&o.TotalQuestions,
		&o.TotalCustomQuestions,
		&o.TotalTags,
	)
	if err != nil {
		return nil, fmt.Errorf("get dashboard overview: %w", err)
	}

	return &o, nil
}
