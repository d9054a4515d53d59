package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PushTokenStore struct {
	db *pgxpool.Pool
}

// AddOrUpdate upserts token + device info, updates last_updated
func (s *PushTokenStore) AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo []byte) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW();
	`

	_, err := s.db.Exec(ctx, q, userID, token, deviceInfo)
	return err
}

func (s *PushTokenStore) Remove(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`
	_, err := s.db.Exec(ctx, q, userID, token)
	return err
}

// RemoveByTokenList drops tokens Expo reported as dead receipts.
func (s *PushTokenStore) RemoveByTokenList(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `DELETE FROM user_push_tokens WHERE expo_push_token = ANY($1)`
	_, err := s.db.Exec(ctx, q, tokens)
	return err
}

// GetTokensByUserIDs returns the push tokens of several users at once,
// keyed by user id.
func (s *PushTokenStore) GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	SELECT user_id, expo_push_token
	FROM user_push_tokens
	WHERE user_id = ANY($1)
	`
	rows, err := s.db.Query(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var token string
		if err := rows.Scan(&userID, &token); err != nil {
			return nil, err
		}
		result[userID] = append(result[userID], token)
	}
	return result, rows.Err()
}

// PruneStale drops tokens that have not been refreshed for olderThan.
func (s *PushTokenStore) PruneStale(ctx context.Context, olderThan time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `DELETE FROM user_push_tokens WHERE last_updated < $1`
	_, err := s.db.Exec(ctx, q, time.Now().Add(-olderThan))
	return err
}
