package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"ledgerbot/internal/access"
	"ledgerbot/internal/ledger"
	"ledgerbot/internal/store"
	"ledgerbot/internal/telegram"
)

func (d *Dispatcher) handleCallback(ctx context.Context, cb telegram.CallbackQuery) {
	metricCallbacksTotal.Add(1)
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	ack := func(text string) {
		if err := d.sender.AnswerCallbackQuery(ctx, cb.ID, text); err != nil {
			log.Warn().Err(err).Str("callback_id", cb.ID).Msg("answer callback failed")
		}
	}

	switch {
	case strings.HasPrefix(cb.Data, "reset:"):
		d.callbackReset(ctx, cb, chatID, ack)

	case strings.HasPrefix(cb.Data, "sum:"):
		switch d.roleCheck(ctx, chatID, cb.From.ID, access.RoleAssistant) {
		case checkDenied:
			ack(denialFor(access.RoleAssistant))
			return
		case checkStoreDown:
			ack(msgStoreUnavailable)
			return
		}
		d.callbackSummary(ctx, cb, chatID, ack)

	default:
		ack("")
	}
}

// callbackReset finishes or cancels a two-phase reset. The role gate runs
// again here: the grant may have expired between request and confirmation.
func (d *Dispatcher) callbackReset(ctx context.Context, cb telegram.CallbackQuery, chatID int64, ack func(string)) {
	action, token, ok := strings.Cut(strings.TrimPrefix(cb.Data, "reset:"), ":")
	if !ok {
		ack("")
		return
	}

	switch d.roleCheck(ctx, chatID, cb.From.ID, access.RoleOwner) {
	case checkDenied:
		ack(denialFor(access.RoleOwner))
		return
	case checkStoreDown:
		ack(msgStoreUnavailable)
		return
	}

	pend, found := d.pending.take(token, chatID, d.now())
	if !found {
		ack(msgResetExpired)
		return
	}

	if action != "confirm" {
		ack("")
		d.send(ctx, chatID, msgResetCancelled, nil)
		return
	}

	removed, err := d.ledger.Reset(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("reset failed")
		ack("")
		d.send(ctx, chatID, msgStoreUnavailable, nil)
		// Reinstate so the confirm can be retried within the window.
		d.pending.restore(token, pend)
		return
	}
	metricResetsTotal.Add(1)
	ack("")
	d.send(ctx, chatID, formatResetDone(removed), nil)
}

func (d *Dispatcher) callbackSummary(ctx context.Context, cb telegram.CallbackQuery, chatID int64, ack func(string)) {
	var (
		text   string
		markup *telegram.InlineKeyboardMarkup
		err    error
	)
	switch {
	case cb.Data == "sum:all":
		var total store.BucketSummary
		total, err = d.ledger.Totals(ctx, chatID)
		if err == nil {
			text = formatTotals(total)
		}

	case cb.Data == "sum:month":
		var rows []store.BucketSummary
		rows, err = d.ledger.Aggregate(ctx, chatID, ledger.BucketMonth, summaryRowLimit)
		if err == nil {
			text = formatSummaryRows(titleByMonth, rows)
		}

	case cb.Data == "sum:year":
		var rows []store.BucketSummary
		rows, err = d.ledger.Aggregate(ctx, chatID, ledger.BucketYear, summaryRowLimit)
		if err == nil {
			text = formatSummaryRows(titleByYear, rows)
			markup = yearDrillKeyboard(rows)
		}

	case strings.HasPrefix(cb.Data, "sum:y:"):
		year, convErr := strconv.Atoi(strings.TrimPrefix(cb.Data, "sum:y:"))
		if convErr != nil {
			ack("")
			return
		}
		var rows []store.BucketSummary
		rows, err = d.ledger.MonthsOfYear(ctx, chatID, year)
		if err == nil {
			text = formatSummaryRows(titleForYear(year), rows)
		}

	default:
		ack("")
		return
	}

	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Str("data", cb.Data).Msg("summary failed")
		ack(msgStoreUnavailable)
		return
	}
	ack("")
	d.send(ctx, chatID, text, markup)
}
