package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an inter-business payment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCanceled  Status = "CANCELED"
	StatusRefunded  Status = "REFUNDED"
)

// CanTransition reports whether a payment in s may move to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next != StatusPending
	case StatusFailed:
		return next == StatusSucceeded || next == StatusCanceled
	case StatusSucceeded:
		return next == StatusRefunded
	}
	return false
}

// Payment is a transfer from one business to another through the processor.
type Payment struct {
	ID                    int64           `json:"id"`
	SenderBusinessID      int64           `json:"senderBusinessId"`
	ReceiverBusinessID    int64           `json:"receiverBusinessId"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Status                Status          `json:"status"`
	StripePaymentIntentID string          `json:"stripePaymentIntentId"`
	StripeChargeID        string          `json:"stripeChargeId,omitempty"`
	ClientSecret          string          `json:"clientSecret,omitempty"`
	CreatedBy             int64           `json:"createdBy"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// InitiateRequest is the input to Service.Initiate.
type InitiateRequest struct {
	ReceiverBusinessID int64           `json:"receiverBusinessId" validate:"required,gt=0"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency" validate:"required,len=3,alpha"`
	Description        string          `json:"description" validate:"max=500"`
}

// Intent is the processor-side payment created for a Payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentRequest carries what the processor needs to create an intent.
type IntentRequest struct {
	AmountMinor        int64
	Currency           string
	ReceiverAccountID  string
	SenderBusinessID   int64
	ReceiverBusinessID int64
	Description        string
	IdempotencyKey     string
}

// StatusUpdate is a processor notification resolved to our status model.
// Exactly one of IntentID and ChargeID identifies the payment.
type StatusUpdate struct {
	EventID  string
	Status   Status
	IntentID string
	ChargeID string
}
