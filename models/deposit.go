package models

import (
	"encoding/json"
	"time"
)

// DepositStatus is the lifecycle state of a deposit. A deposit is created
// pending and moves exactly once to a terminal state.
type DepositStatus string

const (
	DepositStatusPending    DepositStatus = "pending"
	DepositStatusSuccessful DepositStatus = "successful"
	DepositStatusFailed     DepositStatus = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusSuccessful || s == DepositStatusFailed
}

// Deposit is the GORM model persisted in the deposits table. ID doubles as
// the order_id correlation key sent to the payment gateway.
type Deposit struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string        `gorm:"type:varchar(128);not null;index" json:"user_id"`
	PhoneNumber   string        `gorm:"type:varchar(32);not null" json:"phone_number"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Status        DepositStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	TransactionID *string       `gorm:"type:varchar(128)" json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// DepositRequest is the payload for POST /deposit.
type DepositRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
}

// WebhookPayload is the callback body the gateway posts to /webhook.
// The shape is dictated by Flutterwave: the interesting fields live in a
// nested data object.
type WebhookPayload struct {
	Data *WebhookData `json:"data"`
}

// TransactionID is a gateway transaction identifier. The gateway has been
// observed sending it as both a JSON number and a JSON string, so it
// decodes from either.
type TransactionID string

func (t *TransactionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = TransactionID(n.String())
	return nil
}

func (t TransactionID) String() string { return string(t) }

// WebhookData carries the charge outcome.
type WebhookData struct {
	Status        string        `json:"status"`
	TransactionID TransactionID `json:"id"`
	OrderID       uint          `json:"order_id"`
}

// DepositStatusResponse is the body of GET /deposits/:id.
type DepositStatusResponse struct {
	DepositID     uint          `json:"deposit_id"`
	Status        DepositStatus `json:"status"`
	TransactionID *string       `json:"transaction_id,omitempty"`
}

// DepositEvent is published to Kafka when a webhook finalizes a deposit.
type DepositEvent struct {
	Type          string    `json:"type"` // "deposit_successful" or "deposit_failed"
	DepositID     uint      `json:"deposit_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"` // UTC event time
}
