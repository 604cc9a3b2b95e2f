package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment types recorded in the transactions log.
const (
	PaymentCard       = "card"
	PaymentQR         = "qr"
	PaymentCash       = "cash"
	PaymentWithdrawal = "withdrawal"
)

// Account is a named balance holder. Balance is an exact decimal and is
// mutated only under a row-level lock.
type Account struct {
	AccountID string          `json:"account_id" db:"account_id"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
}

// Transaction is an immutable signed monetary record. Negative amounts are
// withdrawals; the sum of an account's transactions equals its balance.
type Transaction struct {
	ID          int64           `json:"id" db:"id"`
	AccountID   string          `json:"account_id" db:"account_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
