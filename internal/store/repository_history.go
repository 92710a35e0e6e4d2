package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AppendTransaction reads the chat's latest balance and inserts the next row
// inside one transaction. A per-chat advisory lock (released at commit)
// serializes concurrent posts, so two writers can never both observe the same
// last balance.
func (s *Store) AppendTransaction(ctx context.Context, chatID, amount int64, description, userName string) (*Transaction, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockChat(ctx, tx, chatID); err != nil {
		return nil, err
	}

	var last int64
	row := tx.QueryRowContext(ctx, `SELECT balance_after FROM history WHERE chat_id = $1 ORDER BY id DESC LIMIT 1`, chatID)
	if err := row.Scan(&last); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	t := &Transaction{
		ChatID:       chatID,
		Amount:       amount,
		Description:  description,
		BalanceAfter: last + amount,
		UserName:     userName,
	}
	row = tx.QueryRowContext(ctx, `
		INSERT INTO history (chat_id, amount, description, balance_after, user_name)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, timestamp
	`, t.ChatID, t.Amount, t.Description, t.BalanceAfter, t.UserName)
	if err := row.Scan(&t.ID, &t.Timestamp); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// lockChat serializes writers of one chat's history for the duration of
// the transaction. Advisory rather than row-level: an empty chat has no
// row to lock.
func lockChat(ctx context.Context, tx *sql.Tx, chatID int64) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, chatID); err != nil {
		return fmt.Errorf("lock chat %d: %w", chatID, err)
	}
	return nil
}

// DeleteLatest removes the chat's most recent entry and returns it.
// Returns ErrNotFound when the chat has no entries.
func (s *Store) DeleteLatest(ctx context.Context, chatID int64) (*Transaction, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockChat(ctx, tx, chatID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		DELETE FROM history
		WHERE id = (SELECT id FROM history WHERE chat_id = $1 ORDER BY id DESC LIMIT 1)
		RETURNING id, chat_id, amount, COALESCE(description, ''), balance_after, COALESCE(user_name, ''), timestamp
	`, chatID)
	var t Transaction
	if err := row.Scan(&t.ID, &t.ChatID, &t.Amount, &t.Description, &t.BalanceAfter, &t.UserName, &t.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteAll removes every entry for the chat and reports how many went away.
func (s *Store) DeleteAll(ctx context.Context, chatID int64) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := lockChat(ctx, tx, chatID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM history WHERE chat_id = $1`, chatID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// LastBalance returns the most recent balance_after, or 0 for an empty chat.
func (s *Store) LastBalance(ctx context.Context, chatID int64) (int64, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT balance_after FROM history WHERE chat_id = $1 ORDER BY id DESC LIMIT 1`, chatID)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return bal, nil
}

// ListRecent returns up to limit entries, most recent first.
func (s *Store) ListRecent(ctx context.Context, chatID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, chat_id, amount, COALESCE(description, ''), balance_after, COALESCE(user_name, ''), timestamp
		FROM history WHERE chat_id = $1 ORDER BY id DESC LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Amount, &t.Description, &t.BalanceAfter, &t.UserName, &t.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const bucketSumSQL = `
	SELECT to_char(timestamp, %s) AS bucket,
	       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS income,
	       COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0) AS expense
	FROM history
	WHERE chat_id = $1`

// SumByDay aggregates per calendar day, most recent day first.
func (s *Store) SumByDay(ctx context.Context, chatID int64, limit int) ([]BucketSummary, error) {
	q := fmt.Sprintf(bucketSumSQL, `'YYYY-MM-DD'`) + ` GROUP BY 1 ORDER BY 1 DESC LIMIT $2`
	return s.queryBuckets(ctx, q, chatID, limit)
}

// SumByMonth aggregates per calendar month, most recent month first.
func (s *Store) SumByMonth(ctx context.Context, chatID int64, limit int) ([]BucketSummary, error) {
	q := fmt.Sprintf(bucketSumSQL, `'YYYY-MM'`) + ` GROUP BY 1 ORDER BY 1 DESC LIMIT $2`
	return s.queryBuckets(ctx, q, chatID, limit)
}

// SumByYear aggregates per calendar year, most recent year first.
func (s *Store) SumByYear(ctx context.Context, chatID int64, limit int) ([]BucketSummary, error) {
	q := fmt.Sprintf(bucketSumSQL, `'YYYY'`) + ` GROUP BY 1 ORDER BY 1 DESC LIMIT $2`
	return s.queryBuckets(ctx, q, chatID, limit)
}

// SumByMonthOfYear aggregates the months of one year, January first.
func (s *Store) SumByMonthOfYear(ctx context.Context, chatID int64, year int) ([]BucketSummary, error) {
	q := fmt.Sprintf(bucketSumSQL, `'YYYY-MM'`) + ` AND EXTRACT(YEAR FROM timestamp) = $2 GROUP BY 1 ORDER BY 1 ASC`
	return s.queryBuckets(ctx, q, chatID, year)
}

// SumTotal aggregates the whole chat history into a single row.
func (s *Store) SumTotal(ctx context.Context, chatID int64) (BucketSummary, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
		       COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0)
		FROM history WHERE chat_id = $1
	`, chatID)
	b := BucketSummary{Key: "all"}
	if err := row.Scan(&b.Income, &b.Expense); err != nil {
		return BucketSummary{}, err
	}
	return b, nil
}

func (s *Store) queryBuckets(ctx context.Context, query string, args ...any) ([]BucketSummary, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BucketSummary{}
	for rows.Next() {
		var b BucketSummary
		if err := rows.Scan(&b.Key, &b.Income, &b.Expense); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
