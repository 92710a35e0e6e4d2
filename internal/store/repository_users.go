package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetGrant returns the access grant row for a user, or ErrNotFound.
func (s *Store) GetGrant(ctx context.Context, userID int64) (*AccessGrant, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT user_id, expire_date FROM users WHERE user_id = $1`, userID)
	var g AccessGrant
	var expiry sql.NullTime
	if err := row.Scan(&g.UserID, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expiry.Valid {
		t := expiry.Time
		g.ExpireDate = &t
	}
	return &g, nil
}

// ExtendGrant moves a user's expiry by deltaDays inside one transaction,
// inserting the row if the user was never granted. An active grant is
// extended from its current expiry; an expired or missing one restarts from
// now. The result never lands before now (negative deltas floor there).
func (s *Store) ExtendGrant(ctx context.Context, userID int64, deltaDays int, now time.Time) (time.Time, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback()

	var current sql.NullTime
	row := tx.QueryRowContext(ctx, `SELECT expire_date FROM users WHERE user_id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&current); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, err
	}

	var cur *time.Time
	if current.Valid {
		cur = &current.Time
	}
	next := extendExpiry(cur, deltaDays, now)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (user_id, expire_date) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET expire_date = EXCLUDED.expire_date
	`, userID, next)
	if err != nil {
		return time.Time{}, err
	}
	if err := tx.Commit(); err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// extendExpiry is the grant arithmetic: base is the current expiry while it
// is still in the future, otherwise now. The floor at now is deliberate --
// a negative delta shortens a grant but cannot revoke it into the past.
func extendExpiry(current *time.Time, deltaDays int, now time.Time) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	next := base.AddDate(0, 0, deltaDays)
	if next.Before(now) {
		return now
	}
	return next
}
