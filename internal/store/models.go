package store

import "time"

type Transaction struct {
	ID           int64
	ChatID       int64
	Amount       int64
	Description  string
	BalanceAfter int64
	UserName     string
	Timestamp    time.Time
}

type AccessGrant struct {
	UserID     int64
	ExpireDate *time.Time
}

type Assistant struct {
	ID          int64
	ChatID      int64
	OwnerID     int64
	AssistantID int64
}

type ReportJob struct {
	ChatID int64
	Hour   int
	Minute int
}

// BucketSummary is one aggregation row. Income and Expense are both
// reported as positive magnitudes; net is Income - Expense.
type BucketSummary struct {
	Key     string
	Income  int64
	Expense int64
}

func (b BucketSummary) Net() int64 {
	return b.Income - b.Expense
}
