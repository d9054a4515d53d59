package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrDuplicateEmail = errors.New("a user with that email already exists")

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Password     password  `json:"-"` // Hide password
	RefreshToken string    `json:"-"` // Sensitive data
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Password struct to store plain text and hash
type password struct {
	text *string `json:"-"`
	hash []byte  `json:"-"`
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type UsersStore struct {
	db *pgxpool.Pool
}

// CreateAndInvite stores the user inactive together with a hashed
// activation token. Both rows commit or neither does.
func (s *UsersStore) CreateAndInvite(ctx context.Context, user *User, token string, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO users (first_name, last_name, email, password)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err = tx.QueryRow(ctx, query, user.FirstName, user.LastName, user.Email, user.Password.hash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return ErrDuplicateEmail
		}
		return err
	}

	invite := `
        INSERT INTO user_invitations (token, user_id, expiry)
        VALUES ($1, $2, $3)
    `
	if _, err := tx.Exec(ctx, invite, token, user.ID, time.Now().Add(exp)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Activate flips the invited user to active and burns the invitation.
func (s *UsersStore) Activate(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	query := `
        SELECT user_id FROM user_invitations
        WHERE token = $1 AND expiry > $2
    `
	err = tx.QueryRow(ctx, query, token, time.Now()).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET is_active = true WHERE id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *UsersStore) GetByID(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, first_name, last_name, email, password, COALESCE(refresh_token, ''), is_active, created_at
        FROM users
        WHERE id = $1 AND is_active = true
    `
	return s.scanOne(s.db.QueryRow(ctx, query, userID))
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, first_name, last_name, email, password, COALESCE(refresh_token, ''), is_active, created_at
        FROM users
        WHERE email = $1 AND is_active = true
    `
	return s.scanOne(s.db.QueryRow(ctx, query, email))
}

func (s *UsersStore) scanOne(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.hash,
		&user.RefreshToken,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes a user outright. Used to roll back registration when
// the invitation email cannot be sent.
func (s *UsersStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UsersStore) SetRefreshToken(ctx context.Context, userID int64, hashedToken string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, hashedToken, userID)
	return err
}
