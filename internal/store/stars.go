package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Star is one selectable rating level. Default stars (value 1..5) are
// shared by every business; a business may add customized ones.
type Star struct {
	ID         int64     `json:"id"`
	Value      int       `json:"value"` // 1-5
	IsDefault  bool      `json:"is_default"`
	BusinessID NullInt64 `json:"business_id" swaggertype:"integer"`
}

type StarStore struct {
	db *pgxpool.Pool
}

// List returns the catalog visible to a business: the shared defaults
// plus its own customized stars, ordered by value.
func (s *StarStore) List(ctx context.Context, businessID int64) ([]Star, error) {
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

	var stars []Star
	for rows.Next() {
		var star Star
		var bID *int64
		if err := rows.Scan(&star.ID, &star.Value, &star.IsDefault, &bID); err != nil {
			return nil, err
		}
		if bID != nil {
			star.BusinessID = NullInt64{Value: *bID, Valid: true}
		}
		stars = append(stars, star)
	}
	return stars, rows.Err()
}

func (s *StarStore) CreateCustom(ctx context.Context, star *Star) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO stars (value, is_default, business_id)
        VALUES ($1, false, $2)
        RETURNING id
    `
	return s.db.QueryRow(ctx, query, star.Value, nullableInt64(star.BusinessID)).Scan(&star.ID)
}
