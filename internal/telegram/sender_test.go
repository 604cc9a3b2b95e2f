package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_SendMessage(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotForm = map[string]string{
			"chat_id":    r.PostFormValue("chat_id"),
			"text":       r.PostFormValue("text"),
			"parse_mode": r.PostFormValue("parse_mode"),
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	sender := NewSender("test-token", server.URL)
	err := sender.SendMessage(context.Background(), 42, "Предмет не найден")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "42", gotForm["chat_id"])
	assert.Equal(t, "Предмет не найден", gotForm["text"])
	assert.Equal(t, "HTML", gotForm["parse_mode"])
}

func TestSender_SendMessage_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewSender("bad-token", server.URL)
	err := sender.SendMessage(context.Background(), 42, "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
