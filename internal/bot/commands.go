package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"ledgerbot/internal/access"
	"ledgerbot/internal/telegram"
)

func (d *Dispatcher) handleCommand(ctx context.Context, msg telegram.Message) {
	fields := strings.Fields(msg.Text)
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]
	chatID := msg.Chat.ID

	switch cmd {
	case "start", "help":
		d.send(ctx, chatID, msgHelp, nil)

	case "balance":
		if !d.gate(ctx, msg, access.RoleAssistant) {
			return
		}
		bal, err := d.ledger.Balance(ctx, chatID)
		if err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("balance failed")
			d.send(ctx, chatID, msgStoreUnavailable, nil)
			return
		}
		d.send(ctx, chatID, formatBalance(bal), nil)

	case "list":
		if !d.gate(ctx, msg, access.RoleAssistant) {
			return
		}
		rows, err := d.ledger.Recent(ctx, chatID, recentListLimit)
		if err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("list failed")
			d.send(ctx, chatID, msgStoreUnavailable, nil)
			return
		}
		d.send(ctx, chatID, formatRecent(rows), nil)

	case "summary":
		if !d.gate(ctx, msg, access.RoleAssistant) {
			return
		}
		d.send(ctx, chatID, msgSummaryMenu, summaryMenuKeyboard())

	case "undo":
		if !d.gate(ctx, msg, access.RoleAssistant) {
			return
		}
		tx, err := d.ledger.Undo(ctx, chatID)
		if err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("undo failed")
			d.send(ctx, chatID, msgStoreUnavailable, nil)
			return
		}
		if tx == nil {
			d.send(ctx, chatID, msgNothingToUndo, nil)
			return
		}
		d.send(ctx, chatID, formatUndone(tx), nil)

	case "reset":
		if !d.gate(ctx, msg, access.RoleOwner) {
			return
		}
		token := d.pending.add(chatID, msg.From.ID, d.now())
		d.send(ctx, chatID, msgResetConfirm, resetConfirmKeyboard(token))

	case "check":
		d.cmdCheck(ctx, msg)

	case "adddays":
		d.cmdAddDays(ctx, msg, args)

	case "addassistant":
		d.cmdAssistant(ctx, msg, true)

	case "removeassistant":
		d.cmdAssistant(ctx, msg, false)

	case "setreport":
		d.cmdSetReport(ctx, msg, args)

	case "stopreport":
		if !d.gate(ctx, msg, access.RoleOwner) {
			return
		}
		if err := d.jobs.DeleteReportJob(ctx, chatID); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("delete report job failed")
			d.send(ctx, chatID, msgStoreUnavailable, nil)
			return
		}
		if d.reports.Stop(chatID) {
			d.send(ctx, chatID, msgReportStopped, nil)
		} else {
			d.send(ctx, chatID, msgReportNotSet, nil)
		}
	}
	// Unknown commands stay silent: group chats run many bots and each
	// only answers its own surface.
}

// gate wraps roleCheck with the standard denial/outage replies.
func (d *Dispatcher) gate(ctx context.Context, msg telegram.Message, min access.Role) bool {
	switch d.roleCheck(ctx, msg.Chat.ID, msg.From.ID, min) {
	case checkDenied:
		d.send(ctx, msg.Chat.ID, denialFor(min), nil)
		return false
	case checkStoreDown:
		d.send(ctx, msg.Chat.ID, msgStoreUnavailable, nil)
		return false
	}
	return true
}

func (d *Dispatcher) cmdCheck(ctx context.Context, msg telegram.Message) {
	if msg.From.ID == d.masterID {
		d.send(ctx, msg.Chat.ID, msgCheckMaster, nil)
		return
	}
	chk, err := d.registry.CheckExpiry(ctx, msg.From.ID, d.now())
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("check expiry failed")
		d.send(ctx, msg.Chat.ID, msgStoreUnavailable, nil)
		return
	}
	d.send(ctx, msg.Chat.ID, formatCheck(chk), nil)
}

func (d *Dispatcher) cmdAddDays(ctx context.Context, msg telegram.Message, args []string) {
	if msg.From.ID != d.masterID {
		metricDeniedTotal.Add(1)
		d.send(ctx, msg.Chat.ID, denialFor(access.RoleMaster), nil)
		return
	}
	if len(args) != 2 {
		d.send(ctx, msg.Chat.ID, msgAddDaysUsage, nil)
		return
	}
	userID, err1 := strconv.ParseInt(args[0], 10, 64)
	days, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || userID == 0 {
		d.send(ctx, msg.Chat.ID, msgAddDaysUsage, nil)
		return
	}
	expiry, err := d.registry.Grant(ctx, userID, days, d.now())
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("grant failed")
		d.send(ctx, msg.Chat.ID, msgStoreUnavailable, nil)
		return
	}
	d.send(ctx, msg.Chat.ID, fmt.Sprintf(msgGranted, userID, expiry.Format("2006-01-02 15:04")), nil)
}

func (d *Dispatcher) cmdAssistant(ctx context.Context, msg telegram.Message, add bool) {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		d.send(ctx, msg.Chat.ID, msgAssistantUsage, nil)
		return
	}
	target := msg.ReplyToMessage.From
	var err error
	if add {
		err = d.registry.AddAssistant(ctx, msg.Chat.ID, msg.From.ID, target.ID, d.now())
	} else {
		err = d.registry.RemoveAssistant(ctx, msg.Chat.ID, msg.From.ID, target.ID, d.now())
	}
	switch {
	case errors.Is(err, access.ErrPermissionDenied):
		metricDeniedTotal.Add(1)
		d.send(ctx, msg.Chat.ID, denialFor(access.RoleOwner), nil)
	case err != nil:
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("assistant mutation failed")
		d.send(ctx, msg.Chat.ID, msgStoreUnavailable, nil)
	case add:
		d.send(ctx, msg.Chat.ID, fmt.Sprintf(msgAssistantAdded, target.FirstName), nil)
	default:
		d.send(ctx, msg.Chat.ID, fmt.Sprintf(msgAssistantRemoved, target.FirstName), nil)
	}
}

func (d *Dispatcher) cmdSetReport(ctx context.Context, msg telegram.Message, args []string) {
	if !d.gate(ctx, msg, access.RoleOwner) {
		return
	}
	if len(args) != 1 {
		d.send(ctx, msg.Chat.ID, msgSetReportUsage, nil)
		return
	}
	hour, minute, err := parseHHMM(args[0])
	if err != nil {
		d.send(ctx, msg.Chat.ID, msgSetReportUsage, nil)
		return
	}
	if err := d.jobs.UpsertReportJob(ctx, msg.Chat.ID, hour, minute); err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("upsert report job failed")
		d.send(ctx, msg.Chat.ID, msgStoreUnavailable, nil)
		return
	}
	d.reports.Set(msg.Chat.ID, hour, minute)
	d.send(ctx, msg.Chat.ID, fmt.Sprintf(msgReportSet, hour, minute), nil)
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
