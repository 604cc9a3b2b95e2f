package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the production Telegram Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// Sender delivers replies through the Bot API sendMessage method.
type Sender struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewSender builds a sender. An empty baseURL selects the production API.
func NewSender(token, baseURL string) *Sender {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Sender{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage posts one HTML-mode message to the chat. Callers treat
// delivery as best effort; no retry is attempted here.
func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("sendMessage returned status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
