package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ledgerbot/internal/access"
	"ledgerbot/internal/ledger"
	"ledgerbot/internal/store"
	"ledgerbot/internal/telegram"
)

// Sender is the outbound half of the chat transport.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Ledger is the balance bookkeeping the dispatcher drives.
type Ledger interface {
	Post(ctx context.Context, chatID int64, p ledger.Posting, author string) (*store.Transaction, error)
	Undo(ctx context.Context, chatID int64) (*store.Transaction, error)
	Reset(ctx context.Context, chatID int64) (int64, error)
	Balance(ctx context.Context, chatID int64) (int64, error)
	Recent(ctx context.Context, chatID int64, limit int) ([]store.Transaction, error)
	Aggregate(ctx context.Context, chatID int64, bucket ledger.Bucket, limit int) ([]store.BucketSummary, error)
	MonthsOfYear(ctx context.Context, chatID int64, year int) ([]store.BucketSummary, error)
	Totals(ctx context.Context, chatID int64) (store.BucketSummary, error)
}

// RoleResolver classifies callers before any mutation runs.
type RoleResolver interface {
	Resolve(ctx context.Context, chatID, userID int64, now time.Time) (access.Role, error)
}

// AccessRegistry mutates grants and assistants.
type AccessRegistry interface {
	Grant(ctx context.Context, userID int64, deltaDays int, now time.Time) (time.Time, error)
	CheckExpiry(ctx context.Context, userID int64, now time.Time) (access.ExpiryCheck, error)
	AddAssistant(ctx context.Context, chatID, actorID, assistantID int64, now time.Time) error
	RemoveAssistant(ctx context.Context, chatID, actorID, assistantID int64, now time.Time) error
}

// ReportScheduler is the per-chat daily timer registry.
type ReportScheduler interface {
	Set(chatID int64, hour, minute int)
	Stop(chatID int64) bool
}

// ReportJobStore persists schedules across restarts.
type ReportJobStore interface {
	UpsertReportJob(ctx context.Context, chatID int64, hour, minute int) error
	DeleteReportJob(ctx context.Context, chatID int64) error
}

// Dispatcher maps inbound updates to ledger and access operations, enforcing
// the role gate before every mutation and formatting all replies.
type Dispatcher struct {
	sender   Sender
	ledger   Ledger
	resolver RoleResolver
	registry AccessRegistry
	reports  ReportScheduler
	jobs     ReportJobStore

	masterID int64
	now      func() time.Time
	pending  *confirmRegistry
}

func New(sender Sender, led Ledger, resolver RoleResolver, registry AccessRegistry, reports ReportScheduler, jobs ReportJobStore, masterID int64) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		ledger:   led,
		resolver: resolver,
		registry: registry,
		reports:  reports,
		jobs:     jobs,
		masterID: masterID,
		now:      time.Now,
		pending:  newConfirmRegistry(),
	}
}

// HandleUpdate processes one inbound update. Failures are logged and turned
// into at most one generic reply; they never take the dispatcher down.
func (d *Dispatcher) HandleUpdate(ctx context.Context, u telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			metricHandlerPanics.Add(1)
			log.Error().Interface("panic", r).Msg("update handler panicked")
		}
	}()
	metricUpdatesTotal.Add(1)

	switch {
	case u.CallbackQuery != nil:
		d.handleCallback(ctx, *u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		d.handleMessage(ctx, *u.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg telegram.Message) {
	if strings.HasPrefix(msg.Text, "/") {
		metricCommandsTotal.Add(1)
		d.handleCommand(ctx, msg)
		return
	}
	d.handlePosting(ctx, msg)
}

func (d *Dispatcher) handlePosting(ctx context.Context, msg telegram.Message) {
	p, err := ledger.ParsePosting(msg.Text)
	if err != nil {
		// Ordinary conversation, or a junk amount: both stay silent so the
		// bot never nags a group chat.
		return
	}

	chatID := msg.Chat.ID
	switch d.roleCheck(ctx, chatID, msg.From.ID, access.RoleAssistant) {
	case checkDenied:
		d.send(ctx, chatID, msgDeniedPosting, nil)
		return
	case checkStoreDown:
		d.send(ctx, chatID, msgStoreUnavailable, nil)
		return
	}

	tx, err := d.ledger.Post(ctx, chatID, p, msg.From.FirstName)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("post failed")
		d.send(ctx, chatID, msgStoreUnavailable, nil)
		return
	}
	metricPostingsTotal.Add(1)
	d.send(ctx, chatID, formatReceipt(tx), nil)
}

type roleCheckResult int

const (
	checkOK roleCheckResult = iota
	checkDenied
	checkStoreDown
)

// roleCheck resolves the caller and compares against min. Store failures
// deny (fail closed) but are reported distinctly so replies can differ.
func (d *Dispatcher) roleCheck(ctx context.Context, chatID, userID int64, min access.Role) roleCheckResult {
	role, err := d.resolver.Resolve(ctx, chatID, userID, d.now())
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Int64("user_id", userID).Msg("role resolve failed")
		return checkStoreDown
	}
	if !role.AtLeast(min) {
		metricDeniedTotal.Add(1)
		return checkDenied
	}
	return checkOK
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) {
	if err := d.sender.SendMessage(ctx, chatID, text, markup); err != nil {
		metricSendErrors.Add(1)
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

// SendDailyReport is the scheduler callback: today's totals plus the
// current balance, in one message.
func (d *Dispatcher) SendDailyReport(ctx context.Context, chatID int64) {
	bal, err := d.ledger.Balance(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("daily report balance failed")
		return
	}
	days, err := d.ledger.Aggregate(ctx, chatID, ledger.BucketDay, 1)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("daily report aggregate failed")
		return
	}
	today := store.BucketSummary{Key: d.now().Format("2006-01-02")}
	if len(days) > 0 && days[0].Key == today.Key {
		today = days[0]
	}
	d.send(ctx, chatID, formatDailyReport(today, bal), nil)
}
