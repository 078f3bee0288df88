package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// TelegramSender posts the event text to a chat through the Bot API.
type TelegramSender struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

func NewTelegramSender(client *http.Client, baseURL, token, chatID string) *TelegramSender {
	return &TelegramSender{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
	}
}

func (t *TelegramSender) Name() string { return "telegram" }

func (t *TelegramSender) Configured() bool {
	return t.token != "" && t.chatID != ""
}

func (t *TelegramSender) Send(ctx context.Context, evt AlertEvent) error {
	if !t.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(telegramMessage{ChatID: t.chatID, Text: evt.Text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// the URL carries the bot token, keep it out of logs
		return fmt.Errorf("telegram: send: %w", redactToken(err, t.token))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
