package providers

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.flutterwave.com/v3"

// FlutterwaveProvider implements PaymentProvider using the Flutterwave
// mobile-money-Rwanda charge API.
type FlutterwaveProvider struct {
	secretKey   string
	currency    string
	callbackURL string
	baseURL     string
	httpClient  *http.Client
}

// NewFlutterwaveProvider creates a new FlutterwaveProvider. currency is the
// fixed charge currency (e.g. "RWF"); callbackURL is the webhook endpoint
// the gateway will invoke with the final outcome.
func NewFlutterwaveProvider(secretKey, currency, callbackURL string) *FlutterwaveProvider {
	return &FlutterwaveProvider{
		secretKey:   secretKey,
		currency:    currency,
		callbackURL: callbackURL,
		baseURL:     defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL overrides the API base URL. Used in tests.
func (f *FlutterwaveProvider) WithBaseURL(url string) *FlutterwaveProvider {
	f.baseURL = url
	return f
}

// ---- Flutterwave API request/response structs ----

type flwCustomer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Name        string `json:"name"`
}

type flwChargeRequest struct {
	TxRef       string      `json:"tx_ref"`
	Amount      float64     `json:"amount"`
	Currency    string      `json:"currency"`
	PaymentType string      `json:"payment_type"`
	OrderID     uint        `json:"order_id"`
	RedirectURL string      `json:"redirect_url"`
	Customer    flwCustomer `json:"customer"`
}

type flwChargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ChargeMobileMoney initiates a mobile-money charge. Every attempt carries
// a freshly generated tx_ref and idempotency key; references are never
// reused across attempts.
func (f *FlutterwaveProvider) ChargeMobileMoney(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	email := req.Email
	if email == "" {
		email = "user@mail.com"
	}

	body := flwChargeRequest{
		TxRef:       "tx_" + uuid.NewString(),
		Amount:      req.Amount,
		Currency:    f.currency,
		PaymentType: "mobilemoneyrwanda",
		OrderID:     req.DepositID,
		RedirectURL: f.callbackURL,
		Customer: flwCustomer{
			Email:       email,
			PhoneNumber: req.PhoneNumber,
			Name:        "Deposit User",
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("marshal charge request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.baseURL+"/charges?type=mobile_money_rwanda", bytes.NewReader(b))
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+f.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	httpResp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("http do: %w", err)}
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: httpResp.StatusCode, Body: string(respBytes)}
	}

	var ack flwChargeResponse
	if err := json.Unmarshal(respBytes, &ack); err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return &ChargeResponse{
		Status:  ack.Status,
		Message: ack.Message,
		Raw:     respBytes,
	}, nil
}

// VerifySignature checks the verif-hash header Flutterwave attaches to
// webhook deliveries against the configured secret hash. Comparison is
// constant-time.
func VerifySignature(header, secretHash string) bool {
	if header == "" || secretHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(secretHash)) == 1
}
