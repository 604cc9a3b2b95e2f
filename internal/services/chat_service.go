package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qrstore/backend/internal/models"
)

// ChatService appends inbound messages to the operator inbox.
type ChatService struct {
	db *sql.DB
}

func NewChatService(db *sql.DB) *ChatService {
	return &ChatService{db: db}
}

// LogMessage appends one inbox row. clientPhone holds the chat-platform
// user id for Telegram senders.
func (s *ChatService) LogMessage(ctx context.Context, clientPhone, message, senderName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (client_phone, message, sender_role, sender_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		clientPhone, message, models.SenderRoleTelegram, senderName)
	if err != nil {
		return fmt.Errorf("inbox insert failed: %w", err)
	}
	return nil
}
