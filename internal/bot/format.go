package bot

import (
	"fmt"
	"strings"

	"ledgerbot/internal/access"
	"ledgerbot/internal/store"
	"ledgerbot/internal/telegram"
)

const (
	recentListLimit = 10
	summaryRowLimit = 12
)

const (
	msgHelp = `Ledger bot commands:
+<amount> <note>  record income
-<amount> <note>  record expense
/balance          current balance
/list             last 10 entries
/summary          totals by month, year, or all time
/undo             remove the latest entry
/reset            wipe this chat's ledger (owner only)
/check            show your access expiry
/setreport HH:MM  schedule a daily report (owner only)
/stopreport       cancel the daily report (owner only)
Reply to someone with /addassistant or /removeassistant to manage helpers.`

	msgStoreUnavailable = "Something went wrong. Please try again later."
	msgNothingToUndo    = "Nothing to undo yet."
	msgEmptyLedger      = "No entries yet."
	msgSummaryMenu      = "Pick a summary:"
	msgResetConfirm     = "Delete every entry in this chat? This cannot be undone."
	msgResetCancelled   = "Reset cancelled."
	msgResetExpired     = "This confirmation has expired. Send /reset again."
	msgReportStopped    = "Daily report stopped."
	msgReportNotSet     = "No daily report was scheduled."
	msgReportSet        = "Daily report scheduled at %02d:%02d."
	msgCheckMaster      = "You are the master account. Access never expires."
	msgCheckUnset       = "You have no access grant. Ask the master to /adddays you."
	msgCheckExpired     = "Your access expired on %s."
	msgCheckActive      = "Your access is valid until %s (%d days left)."
	msgGranted          = "User %d now has access until %s."
	msgAddDaysUsage     = "Usage: /adddays <user_id> <days>"
	msgAssistantUsage   = "Reply to the person's message with this command."
	msgAssistantAdded   = "%s can now post in this chat."
	msgAssistantRemoved = "%s can no longer post in this chat."
	msgSetReportUsage   = "Usage: /setreport HH:MM (24-hour clock)"
	msgDeniedPosting    = "You do not have access to this ledger."

	titleByMonth = "By month"
	titleByYear  = "By year"
)

func denialFor(min access.Role) string {
	switch min {
	case access.RoleOwner:
		return "This command needs owner access."
	case access.RoleMaster:
		return "Only the master account can do that."
	default:
		return msgDeniedPosting
	}
}

func titleForYear(year int) string {
	return fmt.Sprintf("Months of %d", year)
}

func formatAmount(amount int64) string {
	if amount > 0 {
		return fmt.Sprintf("+%d", amount)
	}
	return fmt.Sprintf("%d", amount)
}

func formatBalance(balance int64) string {
	return fmt.Sprintf("Balance: %d", balance)
}

func formatReceipt(tx *store.Transaction) string {
	return fmt.Sprintf("%s\n%s  %s\nBalance: %d",
		tx.Timestamp.Format("2006-01-02 15:04"),
		tx.Description, formatAmount(tx.Amount), tx.BalanceAfter)
}

func formatUndone(tx *store.Transaction) string {
	return fmt.Sprintf("Removed: %s %s\nBalance: %d",
		tx.Description, formatAmount(tx.Amount), tx.BalanceAfter-tx.Amount)
}

func formatResetDone(removed int64) string {
	return fmt.Sprintf("Ledger cleared. %d entries removed.", removed)
}

func formatRecent(rows []store.Transaction) string {
	if len(rows) == 0 {
		return msgEmptyLedger
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Last %d entries:\n", len(rows))
	for _, tx := range rows {
		fmt.Fprintf(&b, "%s  %s  %s  = %d\n",
			tx.Timestamp.Format("01-02 15:04"),
			formatAmount(tx.Amount), tx.Description, tx.BalanceAfter)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSummaryRows(title string, rows []store.BucketSummary) string {
	if len(rows) == 0 {
		return msgEmptyLedger
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  in %d  out %d  net %d\n", r.Key, r.Income, r.Expense, r.Net())
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTotals(total store.BucketSummary) string {
	return fmt.Sprintf("All time\nIncome: %d\nExpense: %d\nNet: %d",
		total.Income, total.Expense, total.Net())
}

func formatDailyReport(today store.BucketSummary, balance int64) string {
	return fmt.Sprintf("Daily report\nIncome today: %d\nExpense today: %d\nBalance: %d",
		today.Income, today.Expense, balance)
}

func formatCheck(chk access.ExpiryCheck) string {
	switch chk.Status {
	case access.ExpiryActive:
		days := int(chk.Remaining.Hours() / 24)
		return fmt.Sprintf(msgCheckActive, chk.ExpireDate.Format("2006-01-02 15:04"), days)
	case access.ExpiryExpired:
		return fmt.Sprintf(msgCheckExpired, chk.ExpireDate.Format("2006-01-02 15:04"))
	default:
		return msgCheckUnset
	}
}

func summaryMenuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "All time", CallbackData: "sum:all"},
			{Text: "By month", CallbackData: "sum:month"},
			{Text: "By year", CallbackData: "sum:year"},
		}},
	}
}

func resetConfirmKeyboard(token string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "Yes, delete everything", CallbackData: "reset:confirm:" + token},
			{Text: "Cancel", CallbackData: "reset:cancel:" + token},
		}},
	}
}

// yearDrillKeyboard lays the year buttons out four per row; Telegram caps
// a keyboard row at eight buttons.
func yearDrillKeyboard(rows []store.BucketSummary) *telegram.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	const perRow = 4
	var keyboard [][]telegram.InlineKeyboardButton
	for start := 0; start < len(rows); start += perRow {
		end := start + perRow
		if end > len(rows) {
			end = len(rows)
		}
		row := make([]telegram.InlineKeyboardButton, 0, end-start)
		for _, r := range rows[start:end] {
			row = append(row, telegram.InlineKeyboardButton{
				Text: r.Key, CallbackData: "sum:y:" + r.Key,
			})
		}
		keyboard = append(keyboard, row)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
