package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdesk/internal/report"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrForbidden         = errors.New("not allowed")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		CreateAndInvite(ctx context.Context, user *User, token string, exp time.Duration) error
		Activate(ctx context.Context, token string) error
		GetByID(ctx context.Context, userID int64) (*User, error)
		GetByEmail(ctx context.Context, email string) (*User, error)
		SetRefreshToken(ctx context.Context, userID int64, hashedToken string) error
		Delete(ctx context.Context, userID int64) error
	}
	Businesses interface {
		Create(ctx context.Context, b *Business) error
		GetByID(ctx context.Context, businessID int64) (*Business, error)
		GetBySlug(ctx context.Context, slug string) (*Business, error)
		SetLogo(ctx context.Context, businessID int64, logoURL string) error
		RemoveLogo(ctx context.Context, businessID int64) (string, error)
	}
	Reviews interface {
		Create(ctx context.Context, review *Review, selections []ReviewValue) error
		ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]Review, int, error)
		Delete(ctx context.Context, reviewID, businessOwnerID int64) error
	}
	Questions interface {
		Create(ctx context.Context, q *Question) error
		ListByBusiness(ctx context.Context, businessID int64) ([]Question, error)
		CreateTag(ctx context.Context, t *Tag) error
		ListTags(ctx context.Context) ([]Tag, error)
		AddStarTag(ctx context.Context, questionID, starID, tagID int64) error
		ListStarTags(ctx context.Context, questionID int64) ([]StarTag, error)
		TripleAllowed(ctx context.Context, questionID, starID int64, tagID *int64) (bool, error)
	}
	Stars interface {
		List(ctx context.Context, businessID int64) ([]Star, error)
		CreateCustom(ctx context.Context, s *Star) error
	}
	Hours interface {
		Replace(ctx context.Context, businessID int64, hours []BusinessHour) error
		ListByBusiness(ctx context.Context, businessID int64) ([]BusinessHour, error)
	}
	PushTokens interface {
		AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo []byte) error
		Remove(ctx context.Context, userID int64, token string) error
		RemoveByTokenList(ctx context.Context, tokens []string) error
		GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
		PruneStale(ctx context.Context, olderThan time.Duration) error
	}
	Dashboard interface {
		GetOverview(ctx context.Context) (*Overview, error)
	}

	// ReportData adapts the relational schema to the aggregation
	// engine's read contract.
	ReportData report.Store
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Businesses: &BusinessStore{db},
		Reviews:    &ReviewStore{db},
		Questions:  &QuestionStore{db},
		Stars:      &StarStore{db},
		Hours:      &HoursStore{db},
		PushTokens: &PushTokenStore{db},
		Dashboard:  &DashboardStore{db},
		ReportData: &ReportDataStore{db},
	}
}
