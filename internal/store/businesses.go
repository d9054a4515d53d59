package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Business struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"owner_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	LogoURL   NullString `json:"logo_url" swaggertype:"string"`
	CreatedAt time.Time  `json:"created_at"`
}

type BusinessStore struct {
	db *pgxpool.Pool
}

func (s *BusinessStore) Create(ctx context.Context, b *Business) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO businesses (owner_id, name, slug)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := s.db.QueryRow(ctx, query, b.OwnerID, b.Name, b.Slug).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if err.Error() == `ERROR: duplicate key value violates unique constraint "businesses_slug_key" (SQLSTATE 23505)` {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *BusinessStore) GetByID(ctx context.Context, businessID int64) (*Business, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, owner_id, name, slug, logo_url, created_at
        FROM businesses
        WHERE id = $1
    `
	return s.scanOne(s.db.QueryRow(ctx, query, businessID))
}

func (s *BusinessStore) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, owner_id, name, slug, logo_url, created_at
        FROM businesses
        WHERE slug = $1
    `
	return s.scanOne(s.db.QueryRow(ctx, query, slug))
}

func (s *BusinessStore) scanOne(row pgx.Row) (*Business, error) {
	var b Business
	var logo *string
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Slug, &logo, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if logo != nil {
		b.LogoURL = NullString{Value: *logo, Valid: true}
	}
	return &b, nil
}

func (s *BusinessStore) SetLogo(ctx context.Context, businessID int64, logoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := s.db.Exec(ctx, `UPDATE businesses SET logo_url = $1 WHERE id = $2`, logoURL, businessID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveLogo clears the logo and returns the previous URL so the caller
// can delete the asset from Cloudinary.
func (s *BusinessStore) RemoveLogo(ctx context.Context, businessID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var previous *string
	query := `
        UPDATE businesses SET logo_url = NULL
        WHERE id = $1
        RETURNING (SELECT logo_url FROM businesses WHERE id = $1)
    `
	err := s.db.QueryRow(ctx, query, businessID).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if previous == nil {
		return "", nil
	}
	return *previous, nil
}
