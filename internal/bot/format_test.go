package bot

import (
	"fmt"
	"testing"

	"ledgerbot/internal/store"
)

func TestYearDrillKeyboardChunksRows(t *testing.T) {
	var years []store.BucketSummary
	for y := 2017; y <= 2026; y++ {
		years = append(years, store.BucketSummary{Key: fmt.Sprintf("%d", y)})
	}

	kb := yearDrillKeyboard(years)
	if kb == nil {
		t.Fatal("nil keyboard for non-empty years")
	}
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3 for 10 years", len(kb.InlineKeyboard))
	}

	total := 0
	for _, row := range kb.InlineKeyboard {
		if len(row) > 4 {
			t.Fatalf("row holds %d buttons, want at most 4", len(row))
		}
		total += len(row)
	}
	if total != len(years) {
		t.Fatalf("buttons = %d, want %d", total, len(years))
	}

	first := kb.InlineKeyboard[0][0]
	if first.Text != "2017" || first.CallbackData != "sum:y:2017" {
		t.Fatalf("first button = %+v", first)
	}
	last := kb.InlineKeyboard[2][1]
	if last.Text != "2026" || last.CallbackData != "sum:y:2026" {
		t.Fatalf("last button = %+v", last)
	}

	if yearDrillKeyboard(nil) != nil {
		t.Fatal("empty years should yield no keyboard")
	}
}
