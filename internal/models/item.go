package models

import "time"

// Item statuses assigned by the intake workflow.
const (
	ItemStored = "stored"
	ItemIssued = "issued"
)

// Item is a stored physical object tracked by QR code. Rows are owned by the
// external intake process; this service only reads them.
type Item struct {
	QRCode      string    `json:"qr_code" db:"qr_code"`
	ItemName    string    `json:"item_name" db:"item_name"`
	ClientName  string    `json:"client_name" db:"client_name"`
	ClientPhone string    `json:"client_phone" db:"client_phone"`
	Status      string    `json:"status" db:"status"`
	DepositDate time.Time `json:"deposit_date" db:"deposit_date"`
}
