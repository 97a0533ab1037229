package models_test

import (
	"encoding/json"
	"testing"

	"deposit-service/models"

	"github.com/stretchr/testify/assert"
)

func TestWebhookPayload_StringTransactionID(t *testing.T) {
	var payload models.WebhookPayload
	err := json.Unmarshal([]byte(`{"data":{"status":"successful","id":"TX1","order_id":1}}`), &payload)

	assert.NoError(t, err)
	assert.NotNil(t, payload.Data)
	assert.Equal(t, "TX1", payload.Data.TransactionID.String())
	assert.Equal(t, uint(1), payload.Data.OrderID)
}

func TestWebhookPayload_NumericTransactionID(t *testing.T) {
	var payload models.WebhookPayload
	err := json.Unmarshal([]byte(`{"data":{"status":"successful","id":4509283,"order_id":2}}`), &payload)

	assert.NoError(t, err)
	assert.Equal(t, "4509283", payload.Data.TransactionID.String())
}

func TestWebhookPayload_MissingTransactionID(t *testing.T) {
	var payload models.WebhookPayload
	err := json.Unmarshal([]byte(`{"data":{"status":"successful","order_id":3}}`), &payload)

	assert.NoError(t, err)
	assert.Equal(t, "", payload.Data.TransactionID.String())
}
