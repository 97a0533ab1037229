package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func chargeReq() ChargeRequest {
	return ChargeRequest{DepositID: 1, Amount: 500, PhoneNumber: "0788000000"}
}

func TestChargeMobileMoney_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotIdemKey string
	var gotBody flwChargeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotIdemKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Charge initiated"}`))
	}))
	defer srv.Close()

	p := NewFlutterwaveProvider("sk_test_123", "RWF", "https://example.com/webhook").WithBaseURL(srv.URL)

	ack, err := p.ChargeMobileMoney(context.Background(), chargeReq())
	assert.NoError(t, err)

	assert.Equal(t, "/charges", gotPath)
	assert.Equal(t, "type=mobile_money_rwanda", gotQuery)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.NotEmpty(t, gotIdemKey)

	assert.True(t, strings.HasPrefix(gotBody.TxRef, "tx_"))
	assert.Equal(t, 500.0, gotBody.Amount)
	assert.Equal(t, "RWF", gotBody.Currency)
	assert.Equal(t, "mobilemoneyrwanda", gotBody.PaymentType)
	assert.Equal(t, uint(1), gotBody.OrderID)
	assert.Equal(t, "https://example.com/webhook", gotBody.RedirectURL)
	assert.Equal(t, "0788000000", gotBody.Customer.PhoneNumber)

	assert.Equal(t, "success", ack.Status)
	assert.Equal(t, "Charge initiated", ack.Message)
	assert.JSONEq(t, `{"status":"success","message":"Charge initiated"}`, string(ack.Raw))
}

func TestChargeMobileMoney_FreshReferencesPerAttempt(t *testing.T) {
	var refs, keys []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body flwChargeRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		refs = append(refs, body.TxRef)
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	p := NewFlutterwaveProvider("sk", "RWF", "https://example.com/webhook").WithBaseURL(srv.URL)

	_, err := p.ChargeMobileMoney(context.Background(), chargeReq())
	assert.NoError(t, err)
	_, err = p.ChargeMobileMoney(context.Background(), chargeReq())
	assert.NoError(t, err)

	assert.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1], "tx_ref must never be reused across attempts")
	assert.NotEqual(t, keys[0], keys[1])
}

func TestChargeMobileMoney_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"Invalid currency"}`))
	}))
	defer srv.Close()

	p := NewFlutterwaveProvider("sk", "RWF", "https://example.com/webhook").WithBaseURL(srv.URL)

	ack, err := p.ChargeMobileMoney(context.Background(), chargeReq())
	assert.Nil(t, ack)

	var gwErr *GatewayError
	assert.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Contains(t, gwErr.Body, "Invalid currency")
}

func TestChargeMobileMoney_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	p := NewFlutterwaveProvider("sk", "RWF", "https://example.com/webhook").WithBaseURL(srv.URL)

	_, err := p.ChargeMobileMoney(context.Background(), chargeReq())

	var gwErr *GatewayError
	assert.ErrorAs(t, err, &gwErr)
}

func TestVerifySignature(t *testing.T) {
	assert.True(t, VerifySignature("hash", "hash"))
	assert.False(t, VerifySignature("other", "hash"))
	assert.False(t, VerifySignature("", "hash"))
	assert.False(t, VerifySignature("hash", ""))
}
