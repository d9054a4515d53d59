package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BusinessHour is one weekly opening interval. Weekday follows
// time.Weekday (0 = Sunday). Times are minutes-precision "HH:MM".
type BusinessHour struct {
	BusinessID int64  `json:"business_id"`
	Weekday    int    `json:"weekday"` // 0-6
	OpensAt    string `json:"opens_at"`
	ClosesAt   string `json:"closes_at"`
}

type HoursStore struct {
	db *pgxpool.Pool
}

// Replace swaps the whole weekly schedule in one transaction. Partial
// schedules are valid; days without a row are closed.
func (s *HoursStore) Replace(ctx context.Context, businessID int64, hours []BusinessHour) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM business_hours WHERE business_id = $1`, businessID); err != nil {
		return err
	}

	query := `
        INSERT INTO business_hours (business_id, weekday, opens_at, closes_at)
        VALUES ($1, $2, $3, $4)
    `
	for _, h := range hours {
		if _, err := tx.Exec(ctx, query, businessID, h.Weekday, h.OpensAt, h.ClosesAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *HoursStore) ListByBusiness(ctx context.Context, businessID int64) ([]BusinessHour, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT business_id, weekday, to_char(opens_at, 'HH24:MI'), to_char(closes_at, 'HH24:MI')
        FROM business_hours
        WHERE business_id = $1
        ORDER BY weekday ASC, opens_at ASC
    `
	rows, err := s.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []BusinessHour
	for rows.Next() {
		var h BusinessHour
		if err := rows.Scan(&h.BusinessID, &h.Weekday, &h.OpensAt, &h.ClosesAt); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// OpenNow reports whether any interval of the schedule covers now.
// Opening minutes are inclusive, closing minutes exclusive, so back to
// back intervals don't double-count the boundary minute. An interval
// whose close is not after its open spans midnight into the next day.
func OpenNow(hours []BusinessHour, now time.Time) bool {
	weekday := int(now.Weekday())
	minute := now.Hour()*60 + now.Minute()

	for _, h := range hours {
		openAt, err := parseClockMinutes(h.OpensAt)
		if err != nil {
			continue
		}
		closeAt, err := parseClockMinutes(h.ClosesAt)
		if err != nil {
			continue
		}

		if openAt < closeAt {
			if h.Weekday == weekday && minute >= openAt && minute < closeAt {
				return true
			}
			continue
		}

		// overnight span
		if h.Weekday == weekday && minute >= openAt {
			return true
		}
		if (h.Weekday+1)%7 == weekday && minute < closeAt {
			return true
		}
	}
	return false
}

func parseClockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, strconv.ErrSyntax
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return hour*60 + minutes, nil
}
