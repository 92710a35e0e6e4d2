package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessagePayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:abc")
	markup := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: "Confirm", CallbackData: "x"}}},
	}
	if err := c.SendMessage(context.Background(), -100, "hello", markup); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["chat_id"].(float64) != -100 || gotBody["text"] != "hello" {
		t.Fatalf("body = %v", gotBody)
	}
	if _, ok := gotBody["reply_markup"]; !ok {
		t.Fatal("reply_markup missing")
	}
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"description":"bot was kicked"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	err := c.SendMessage(context.Background(), 1, "x", nil)
	if err == nil {
		t.Fatal("expected error for ok=false response")
	}
}

func TestGetUpdatesDecodesBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)
		if req["offset"].(float64) != 5 {
			t.Errorf("offset = %v, want 5", req["offset"])
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":5,"message":{"message_id":1,"chat":{"id":-9,"type":"group"},"from":{"id":7,"first_name":"A"},"text":"+500 rent"}},
			{"update_id":6,"callback_query":{"id":"cb1","from":{"id":7,"first_name":"A"},"data":"sum:all"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	updates, err := c.GetUpdates(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Text != "+500 rent" {
		t.Fatalf("first update = %+v", updates[0])
	}
	if updates[0].Message.Chat.ID != -9 {
		t.Fatalf("chat id = %d", updates[0].Message.Chat.ID)
	}
	if updates[1].CallbackQuery == nil || updates[1].CallbackQuery.Data != "sum:all" {
		t.Fatalf("second update = %+v", updates[1])
	}
}
