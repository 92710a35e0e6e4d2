package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"ledgerbot/internal/store"
)

// memStore mirrors the store's append semantics in memory: each row carries
// the previous balance plus its amount.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64][]store.Transaction
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64][]store.Transaction{}}
}

func (m *memStore) AppendTransaction(_ context.Context, chatID, amount int64, description, userName string) (*store.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last := int64(0)
	if rs := m.rows[chatID]; len(rs) > 0 {
		last = rs[len(rs)-1].BalanceAfter
	}
	m.nextID++
	t := store.Transaction{
		ID:           m.nextID,
		ChatID:       chatID,
		Amount:       amount,
		Description:  description,
		BalanceAfter: last + amount,
		UserName:     userName,
		Timestamp:    time.Now(),
	}
	m.rows[chatID] = append(m.rows[chatID], t)
	return &t, nil
}

func (m *memStore) DeleteLatest(_ context.Context, chatID int64) (*store.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.rows[chatID]
	if len(rs) == 0 {
		return nil, store.ErrNotFound
	}
	t := rs[len(rs)-1]
	m.rows[chatID] = rs[:len(rs)-1]
	return &t, nil
}

func (m *memStore) DeleteAll(_ context.Context, chatID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows[chatID]))
	delete(m.rows, chatID)
	return n, nil
}

func (m *memStore) LastBalance(_ context.Context, chatID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.rows[chatID]
	if len(rs) == 0 {
		return 0, nil
	}
	return rs[len(rs)-1].BalanceAfter, nil
}

func (m *memStore) ListRecent(_ context.Context, chatID int64, limit int) ([]store.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.rows[chatID]
	out := []store.Transaction{}
	for i := len(rs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rs[i])
	}
	return out, nil
}

func (m *memStore) SumTotal(_ context.Context, chatID int64) (store.BucketSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := store.BucketSummary{Key: "all"}
	for _, t := range m.rows[chatID] {
		if t.Amount > 0 {
			b.Income += t.Amount
		} else {
			b.Expense += -t.Amount
		}
	}
	return b, nil
}

func (m *memStore) SumByDay(context.Context, int64, int) ([]store.BucketSummary, error) {
	return nil, nil
}
func (m *memStore) SumByMonth(context.Context, int64, int) ([]store.BucketSummary, error) {
	return nil, nil
}
func (m *memStore) SumByYear(context.Context, int64, int) ([]store.BucketSummary, error) {
	return nil, nil
}
func (m *memStore) SumByMonthOfYear(context.Context, int64, int) ([]store.BucketSummary, error) {
	return nil, nil
}

func TestEngineScenario(t *testing.T) {
	ctx := context.Background()
	e := New(newMemStore())
	const chat = int64(1)

	first, err := e.Post(ctx, chat, Posting{Amount: 500, Description: "top-up"}, "alice")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if first.BalanceAfter != 500 {
		t.Fatalf("balance = %d, want 500", first.BalanceAfter)
	}

	second, err := e.Post(ctx, chat, Posting{Amount: -120, Description: "lunch"}, "bob")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if second.BalanceAfter != 380 {
		t.Fatalf("balance = %d, want 380", second.BalanceAfter)
	}

	undone, err := e.Undo(ctx, chat)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone == nil || undone.Amount != -120 {
		t.Fatalf("undone = %+v, want the lunch row", undone)
	}
	bal, _ := e.Balance(ctx, chat)
	if bal != 500 {
		t.Fatalf("balance after undo = %d, want 500", bal)
	}

	count, err := e.Reset(ctx, chat)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if count != 1 {
		t.Fatalf("reset count = %d, want 1", count)
	}
	bal, _ = e.Balance(ctx, chat)
	if bal != 0 {
		t.Fatalf("balance after reset = %d, want 0", bal)
	}
	rows, _ := e.Recent(ctx, chat, 10)
	if len(rows) != 0 {
		t.Fatalf("recent after reset = %d rows, want 0", len(rows))
	}
}

func TestEngineBalanceMatchesSumOfAmounts(t *testing.T) {
	ctx := context.Background()
	e := New(newMemStore())
	const chat = int64(4)

	amounts := []int64{500, -120, 30, -5, 1000, -999}
	var sum int64
	for _, a := range amounts {
		if _, err := e.Post(ctx, chat, Posting{Amount: a}, "u"); err != nil {
			t.Fatalf("post %d: %v", a, err)
		}
		sum += a
	}
	bal, err := e.Balance(ctx, chat)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != sum {
		t.Fatalf("balance = %d, want sum of amounts %d", bal, sum)
	}

	total, err := e.Totals(ctx, chat)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if total.Net() != sum {
		t.Fatalf("net = %d, want %d", total.Net(), sum)
	}
}

func TestEngineUndoOnEmptyChat(t *testing.T) {
	e := New(newMemStore())
	undone, err := e.Undo(context.Background(), 99)
	if err != nil {
		t.Fatalf("undo on empty chat: %v", err)
	}
	if undone != nil {
		t.Fatalf("undone = %+v, want nil", undone)
	}
}

func TestEnginePostRejectsZero(t *testing.T) {
	e := New(newMemStore())
	if _, err := e.Post(context.Background(), 1, Posting{Amount: 0}, "u"); err != ErrMalformedAmount {
		t.Fatalf("err = %v, want ErrMalformedAmount", err)
	}
}

func TestEnginePostDefaultsDescription(t *testing.T) {
	e := New(newMemStore())
	tx, err := e.Post(context.Background(), 1, Posting{Amount: 10}, "u")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if tx.Description != DefaultDescription {
		t.Fatalf("description = %q, want placeholder", tx.Description)
	}
}
