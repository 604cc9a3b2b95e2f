package models

import "time"

// SenderRoleTelegram marks inbox rows that arrived through the Telegram bot.
const SenderRoleTelegram = "telegram_user"

// ChatMessage is one row of the operator inbox. Append-only; a human
// operator surface outside this service reads and answers them.
type ChatMessage struct {
	ClientPhone string    `json:"client_phone" db:"client_phone"`
	Message     string    `json:"message" db:"message"`
	SenderRole  string    `json:"sender_role" db:"sender_role"`
	SenderName  string    `json:"sender_name" db:"sender_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
