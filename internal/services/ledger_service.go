package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/qrstore/backend/internal/models"
)

// Accepted cash denominations, largest first. Breakdown lines keep this order.
var denominations = []int64{5000, 2000, 1000, 500, 200, 100, 50, 10, 5, 2, 1}

// LedgerService owns account balances and the append-only transaction log.
// Concurrent mutations of the same account are serialized by the row-level
// lock taken with SELECT ... FOR UPDATE.
type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// PaymentRequest carries one payment intake of any type. Type-specific
// fields are only read for their own payment type.
type PaymentRequest struct {
	PaymentType string
	Amount      decimal.Decimal
	AccountID   string
	Description string
	QRCode      string
	CardNumber  string
	CashDetails map[string]int
}

// PaymentResult is the outcome of a successful payment.
type PaymentResult struct {
	TransactionID int64
	NewBalance    decimal.Decimal
	Item          string
	Breakdown     []string
	Message       string
}

// WithdrawRequest carries one withdrawal.
type WithdrawRequest struct {
	Amount    decimal.Decimal
	AccountID string
	Phone     string
}

// WithdrawResult is the outcome of a successful withdrawal.
type WithdrawResult struct {
	NewBalance decimal.Decimal
	Message    string
}

// GetBalance returns the current balance. Unknown accounts read as zero;
// no row is created.
func (s *LedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM payment_accounts WHERE account_id = $1`,
		accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance query failed: %w", err)
	}
	return balance, nil
}

// ListTransactions returns the account's transactions, newest first,
// capped at 50.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, payment_type, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 50`, accountID)
	if err != nil {
		return nil, fmt.Errorf("transactions query failed: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx := models.Transaction{AccountID: accountID}
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.PaymentType, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("transactions scan failed: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// ProcessPayment dispatches on payment type. Business refusals come back as
// *BusinessError with no database mutation.
func (s *LedgerService) ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, &BusinessError{Message: "Invalid amount"}
	}
	switch req.PaymentType {
	case models.PaymentCard:
		return s.processCardPayment(ctx, req)
	case models.PaymentQR:
		return s.processQRPayment(ctx, req)
	case models.PaymentCash:
		return s.processCashPayment(ctx, req)
	}
	return nil, &BusinessError{Message: "Unknown payment type"}
}

func (s *LedgerService) processCardPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	description := req.Description
	if description == "" {
		tail := req.CardNumber
		if len(tail) > 4 {
			tail = tail[len(tail)-4:]
		}
		description = fmt.Sprintf("Оплата картой %s", tail)
	}

	newBalance, txID, err := s.deposit(ctx, req.AccountID, req.Amount, models.PaymentCard, description)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		TransactionID: txID,
		NewBalance:    newBalance,
		Message:       fmt.Sprintf("Оплата %s ₽ принята", req.Amount),
	}, nil
}

func (s *LedgerService) processQRPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var itemName, clientName string
	err := s.db.QueryRowContext(ctx,
		`SELECT item_name, client_name FROM items WHERE qr_code = $1`,
		req.QRCode).Scan(&itemName, &clientName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &BusinessError{Message: "QR-код не найден"}
	}
	if err != nil {
		return nil, fmt.Errorf("item lookup failed: %w", err)
	}

	description := fmt.Sprintf("Оплата по QR: %s (%s)", itemName, clientName)
	newBalance, txID, err := s.deposit(ctx, req.AccountID, req.Amount, models.PaymentQR, description)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		TransactionID: txID,
		NewBalance:    newBalance,
		Item:          itemName,
		Message:       fmt.Sprintf("Оплата %s ₽ за %s", req.Amount, itemName),
	}, nil
}

func (s *LedgerService) processCashPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	breakdown, err := reconcileCash(req.CashDetails, req.Amount)
	if err != nil {
		return nil, err
	}

	description := "Наличные: " + strings.Join(breakdown, ", ")
	newBalance, txID, err := s.deposit(ctx, req.AccountID, req.Amount, models.PaymentCash, description)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		TransactionID: txID,
		NewBalance:    newBalance,
		Breakdown:     breakdown,
		Message:       fmt.Sprintf("Принято %s ₽ наличными", req.Amount),
	}, nil
}

// reconcileCash recomputes the handed-over total from per-denomination
// counts. The exact-decimal sum must equal the claimed amount.
func reconcileCash(details map[string]int, amount decimal.Decimal) ([]string, error) {
	total := decimal.Zero
	var breakdown []string

	for _, denom := range denominations {
		count := details[strconv.FormatInt(denom, 10)]
		if count > 0 {
			total = total.Add(decimal.NewFromInt(denom).Mul(decimal.NewFromInt(int64(count))))
			breakdown = append(breakdown, fmt.Sprintf("%d₽ x %d", denom, count))
		}
	}

	if !total.Equal(amount) {
		return nil, &BusinessError{
			Message: fmt.Sprintf("Несоответствие суммы. Указано: %s, Подсчитано: %s", amount, total),
		}
	}
	return breakdown, nil
}

// deposit adds amount to the account balance and appends a transaction row,
// all inside one database transaction. The account row is created with a
// zero balance if it does not exist yet.
func (s *LedgerService) deposit(ctx context.Context, accountID string, amount decimal.Decimal, paymentType, description string) (decimal.Decimal, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback()

	balance, err := s.lockAccount(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, 0, err
	}

	newBalance := balance.Add(amount)
	if _, err := tx.ExecContext(ctx,
		`UPDATE payment_accounts SET balance = $1 WHERE account_id = $2`,
		newBalance, accountID); err != nil {
		return decimal.Zero, 0, fmt.Errorf("balance update failed: %w", err)
	}

	var txID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions (account_id, amount, payment_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`,
		accountID, amount, paymentType, description).Scan(&txID); err != nil {
		return decimal.Zero, 0, fmt.Errorf("transaction insert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, 0, fmt.Errorf("commit failed: %w", err)
	}

	log.Printf("[LEDGER] %s payment of %s accepted for account %s, tx %d", paymentType, amount, accountID, txID)
	return newBalance, txID, nil
}

// lockAccount takes the exclusive row lock on the account and returns its
// balance, creating the account with a zero balance when absent.
func (s *LedgerService) lockAccount(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM payment_accounts WHERE account_id = $1 FOR UPDATE`,
		accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payment_accounts (account_id, balance) VALUES ($1, $2)`,
			accountID, decimal.Zero); err != nil {
			return decimal.Zero, fmt.Errorf("account create failed: %w", err)
		}
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("account lock failed: %w", err)
	}
	return balance, nil
}

// Withdraw subtracts amount from the account if covered, recording a
// negative transaction. Unknown accounts read as zero and are not created.
func (s *LedgerService) Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error) {
	if !req.Amount.IsPositive() {
		return nil, &BusinessError{Message: "Invalid amount"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM payment_accounts WHERE account_id = $1 FOR UPDATE`,
		req.AccountID).Scan(&balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account lock failed: %w", err)
	}

	if balance.LessThan(req.Amount) {
		reported := balance
		return nil, &BusinessError{Message: "Insufficient funds", Balance: &reported}
	}

	newBalance := balance.Sub(req.Amount)
	if _, err := tx.ExecContext(ctx,
		`UPDATE payment_accounts SET balance = $1 WHERE account_id = $2`,
		newBalance, req.AccountID); err != nil {
		return nil, fmt.Errorf("balance update failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (account_id, amount, payment_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		req.AccountID, req.Amount.Neg(), models.PaymentWithdrawal,
		fmt.Sprintf("Вывод на %s", req.Phone)); err != nil {
		return nil, fmt.Errorf("transaction insert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	log.Printf("[LEDGER] withdrawal of %s from account %s", req.Amount, req.AccountID)
	return &WithdrawResult{
		NewBalance: newBalance,
		Message:    fmt.Sprintf("Выведено %s ₽ на %s", req.Amount, req.Phone),
	}, nil
}
