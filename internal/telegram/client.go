package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Bot API client: JSON in, JSON out, one method per
// endpoint the bot uses.
type Client struct {
	baseURL string
	token   string
	inner   *http.Client
}

// NewClient builds a client for the given API base (normally
// https://api.telegram.org). The HTTP timeout must exceed the long-poll
// timeout handed to GetUpdates, so it is set per call instead.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		inner:   &http.Client{},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, timeout time.Duration, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var api apiResponse
	if err := json.Unmarshal(respRaw, &api); err != nil {
		return fmt.Errorf("%s: status %d: %w", method, resp.StatusCode, err)
	}
	if !api.OK {
		return fmt.Errorf("%s failed with status %d: %s", method, resp.StatusCode, api.Description)
	}
	if out != nil {
		return json.Unmarshal(api.Result, out)
	}
	return nil
}

// GetUpdates long-polls for the next batch of updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	// Give the HTTP layer headroom beyond the server-side poll timeout.
	callTimeout := time.Duration(timeoutSec+10) * time.Second
	if err := c.call(ctx, "getUpdates", callTimeout, payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage posts text to a chat, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", 10*time.Second, payload, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing a spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", 10*time.Second, payload, nil)
}
