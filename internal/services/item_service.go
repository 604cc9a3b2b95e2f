package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qrstore/backend/internal/models"
)

// ItemService reads the items table owned by the intake workflow.
type ItemService struct {
	db *sql.DB
}

func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

// ItemsByPhone returns all items deposited under a client phone, newest
// deposit first.
func (s *ItemService) ItemsByPhone(ctx context.Context, phone string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qr_code, item_name, status, deposit_date
		FROM items
		WHERE client_phone = $1
		ORDER BY deposit_date DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("items query failed: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it := models.Item{ClientPhone: phone}
		if err := rows.Scan(&it.QRCode, &it.ItemName, &it.Status, &it.DepositDate); err != nil {
			return nil, fmt.Errorf("items scan failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ItemByQR returns the item for a QR code, or nil when there is none.
func (s *ItemService) ItemByQR(ctx context.Context, qrCode string) (*models.Item, error) {
	it := models.Item{QRCode: qrCode}
	err := s.db.QueryRowContext(ctx, `
		SELECT item_name, client_name, status, deposit_date
		FROM items
		WHERE qr_code = $1`, qrCode).Scan(&it.ItemName, &it.ClientName, &it.Status, &it.DepositDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("item lookup failed: %w", err)
	}
	return &it, nil
}
