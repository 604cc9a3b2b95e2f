package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qrstore/backend/internal/models"
	"github.com/qrstore/backend/internal/services"
)

const welcomeText = `Добро пожаловать в систему QR-документов! 🎯

Доступные команды:
/status <номер_телефона> - Проверить статус ваших предметов
/qr <код> - Информация по QR-коду
/help - Помощь

Для связи с оператором напишите сообщение.`

const helpText = `Помощь по боту:

/status <телефон> - Статус предметов
/qr <код> - Информация по QR
/help - Эта справка

Для связи с оператором просто напишите сообщение.`

// MessageSender delivers the composed reply to the chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// BotHandler routes Telegram webhook updates: a closed command set plus a
// default arm that forwards free text to the operator inbox.
type BotHandler struct {
	items  *services.ItemService
	chat   *services.ChatService
	sender MessageSender
}

func NewBotHandler(items *services.ItemService, chat *services.ChatService, sender MessageSender) *BotHandler {
	return &BotHandler{items: items, chat: chat, sender: sender}
}

// command is the recognized prefix of an inbound message.
type command int

const (
	cmdStart command = iota
	cmdStatus
	cmdQR
	cmdHelp
	cmdFreeText
)

// parseCommand returns the matched command and its trimmed argument.
func parseCommand(text string) (command, string) {
	switch {
	case strings.HasPrefix(text, "/start"):
		return cmdStart, ""
	case strings.HasPrefix(text, "/status"):
		return cmdStatus, strings.TrimSpace(strings.TrimPrefix(text, "/status"))
	case strings.HasPrefix(text, "/qr"):
		return cmdQR, strings.TrimSpace(strings.TrimPrefix(text, "/qr"))
	case strings.HasPrefix(text, "/help"):
		return cmdHelp, ""
	}
	return cmdFreeText, text
}

// Handle processes one webhook invocation. The response to Telegram is a
// generic acknowledgment regardless of delivery outcome.
func (h *BotHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodOptions:
		return optionsResponse("POST, OPTIONS"), nil
	case http.MethodPost:
	default:
		return jsonResponse(http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
	}

	var update tgbotapi.Update
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		log.Printf("[BOT] malformed webhook body: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	// Updates without a resolvable chat are acknowledged without touching
	// the database.
	if update.Message == nil || update.Message.Chat == nil || update.Message.Chat.ID == 0 {
		return jsonResponse(http.StatusOK, map[string]any{"ok": true})
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text
	userID := ""
	username := "unknown"
	if update.Message.From != nil {
		userID = strconv.FormatInt(update.Message.From.ID, 10)
		if update.Message.From.UserName != "" {
			username = update.Message.From.UserName
		}
	}

	responseText, err := h.dispatch(ctx, text, userID, username)
	if err != nil {
		log.Printf("[BOT] dispatch failed: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	// Best-effort delivery; failures are logged and swallowed.
	if err := h.sender.SendMessage(ctx, chatID, responseText); err != nil {
		log.Printf("[TELEGRAM] send to chat %d failed: %v", chatID, err)
	}

	return jsonResponse(http.StatusOK, map[string]any{"ok": true})
}

func (h *BotHandler) dispatch(ctx context.Context, text, userID, username string) (string, error) {
	cmd, arg := parseCommand(text)

	switch cmd {
	case cmdStart:
		if err := h.chat.LogMessage(ctx, userID, text, username); err != nil {
			return "", err
		}
		return welcomeText, nil

	case cmdStatus:
		return h.statusReply(ctx, arg)

	case cmdQR:
		return h.qrReply(ctx, arg)

	case cmdHelp:
		return helpText, nil
	}

	if err := h.chat.LogMessage(ctx, userID, text, username); err != nil {
		return "", err
	}
	return "Ваше сообщение отправлено оператору. Ожидайте ответа.", nil
}

func (h *BotHandler) statusReply(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "Укажите номер телефона: /status +79001234567", nil
	}

	items, err := h.items.ItemsByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "У вас нет предметов в хранилище", nil
	}

	var b strings.Builder
	b.WriteString("Ваши предметы:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "📦 %s\n🔢 QR: %s\n📊 %s\n📅 %s\n\n",
			it.ItemName, it.QRCode, statusLabel(it.Status), it.DepositDate.Format("02.01.2006"))
	}
	return b.String(), nil
}

func (h *BotHandler) qrReply(ctx context.Context, qrCode string) (string, error) {
	if qrCode == "" {
		return "Укажите QR-код: /qr 123456789012", nil
	}

	item, err := h.items.ItemByQR(ctx, qrCode)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "Предмет не найден", nil
	}

	return fmt.Sprintf("Информация о предмете:\n📦 %s\n👤 %s\n📊 %s\n📅 %s",
		item.ItemName, item.ClientName, statusLabel(item.Status),
		item.DepositDate.Format("02.01.2006")), nil
}

func statusLabel(status string) string {
	if status == models.ItemStored {
		return "На хранении"
	}
	return "Выдан"
}
