package providers

import (
	"context"
	"fmt"
)

// ChargeRequest carries everything the gateway needs to initiate a
// mobile-money charge. DepositID is relayed to the gateway as order_id and
// comes back in the webhook to correlate the outcome.
type ChargeRequest struct {
	DepositID   uint
	Amount      float64
	PhoneNumber string
	Email       string
}

// ChargeResponse is the gateway's synchronous acknowledgment. It is not a
// final settlement; the payer still approves the charge on their phone and
// the outcome arrives later on the webhook. Raw holds the upstream body
// verbatim so callers can relay it unmodified.
type ChargeResponse struct {
	Status  string
	Message string
	Raw     []byte
}

// GatewayError is returned when the gateway is unreachable, times out, or
// rejects the charge. Body preserves the upstream error payload for logs;
// it must not be relayed to end clients.
type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %v", e.Err)
	}
	return fmt.Sprintf("payment gateway: status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PaymentProvider defines the interface all payment gateway integrations
// must implement.
type PaymentProvider interface {
	// ChargeMobileMoney initiates an asynchronous mobile-money charge with
	// a freshly generated transaction reference, unique per attempt.
	ChargeMobileMoney(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}
