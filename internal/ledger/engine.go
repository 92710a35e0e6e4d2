package ledger

import (
	"context"
	"errors"

	"ledgerbot/internal/store"
)

// Bucket selects the aggregation grain for Aggregate.
type Bucket int

const (
	BucketDay Bucket = iota
	BucketMonth
	BucketYear
)

// Store is the slice of the persistence layer the engine needs.
type Store interface {
	AppendTransaction(ctx context.Context, chatID, amount int64, description, userName string) (*store.Transaction, error)
	DeleteLatest(ctx context.Context, chatID int64) (*store.Transaction, error)
	DeleteAll(ctx context.Context, chatID int64) (int64, error)
	LastBalance(ctx context.Context, chatID int64) (int64, error)
	ListRecent(ctx context.Context, chatID int64, limit int) ([]store.Transaction, error)
	SumByDay(ctx context.Context, chatID int64, limit int) ([]store.BucketSummary, error)
	SumByMonth(ctx context.Context, chatID int64, limit int) ([]store.BucketSummary, error)
	SumByYear(ctx context.Context, chatID int64, limit int) ([]store.BucketSummary, error)
	SumByMonthOfYear(ctx context.Context, chatID int64, year int) ([]store.BucketSummary, error)
	SumTotal(ctx context.Context, chatID int64) (store.BucketSummary, error)
}

// Engine is the append-only balance bookkeeping over the store.
type Engine struct {
	store Store
}

func New(s Store) *Engine {
	return &Engine{store: s}
}

// Post appends one signed transaction and returns the persisted row,
// including the running balance the store computed for it.
func (e *Engine) Post(ctx context.Context, chatID int64, p Posting, author string) (*store.Transaction, error) {
	if p.Amount == 0 {
		return nil, ErrMalformedAmount
	}
	desc := p.Description
	if desc == "" {
		desc = DefaultDescription
	}
	return e.store.AppendTransaction(ctx, chatID, p.Amount, desc, author)
}

// Undo deletes the chat's most recent transaction and returns it. An empty
// chat yields (nil, nil): nothing to undo is a valid state, not an error.
func (e *Engine) Undo(ctx context.Context, chatID int64) (*store.Transaction, error) {
	t, err := e.store.DeleteLatest(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// Reset deletes every transaction for the chat and reports the count.
func (e *Engine) Reset(ctx context.Context, chatID int64) (int64, error) {
	return e.store.DeleteAll(ctx, chatID)
}

func (e *Engine) Balance(ctx context.Context, chatID int64) (int64, error) {
	return e.store.LastBalance(ctx, chatID)
}

func (e *Engine) Recent(ctx context.Context, chatID int64, limit int) ([]store.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return e.store.ListRecent(ctx, chatID, limit)
}

// Aggregate sums postings per bucket, income and expense separately.
func (e *Engine) Aggregate(ctx context.Context, chatID int64, bucket Bucket, limit int) ([]store.BucketSummary, error) {
	if limit <= 0 {
		limit = 12
	}
	switch bucket {
	case BucketDay:
		return e.store.SumByDay(ctx, chatID, limit)
	case BucketMonth:
		return e.store.SumByMonth(ctx, chatID, limit)
	default:
		return e.store.SumByYear(ctx, chatID, limit)
	}
}

// MonthsOfYear drills one year down into its months, January first.
func (e *Engine) MonthsOfYear(ctx context.Context, chatID int64, year int) ([]store.BucketSummary, error) {
	return e.store.SumByMonthOfYear(ctx, chatID, year)
}

// Totals is the all-time income/expense pair for the chat.
func (e *Engine) Totals(ctx context.Context, chatID int64) (store.BucketSummary, error) {
	return e.store.SumTotal(ctx, chatID)
}
