package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/usecase"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Currency:       "LTC",
		SourceCurrency: "USD",
		CallbackURL:    "https://shop.example.com/v1/payment-callback",
		SuccessURL:     "https://shop.example.com/payment/success",
		FailURL:        "https://shop.example.com/payment/failed",
		Timeout:        2 * time.Second,
	})
}

func invoiceParams() usecase.CreateInvoiceParams {
	return usecase.CreateInvoiceParams{
		Amount:      decimal.NewFromFloat(9.99),
		OrderName:   "V2Ray Config",
		OrderNumber: "V2Ray Config-1700000000123",
		Email:       "buyer@example.com",
	}
}

func TestCreateInvoice(t *testing.T) {
	var q map[string]string
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoices/new", r.URL.Path)
		q = map[string]string{
			"api_key":         r.URL.Query().Get("api_key"),
			"currency":        r.URL.Query().Get("currency"),
			"source_currency": r.URL.Query().Get("source_currency"),
			"source_amount":   r.URL.Query().Get("source_amount"),
			"order_number":    r.URL.Query().Get("order_number"),
			"email":           r.URL.Query().Get("email"),
			"callback_url":    r.URL.Query().Get("callback_url"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"invoice_url":"https://plisio.net/invoice/abc","txn_id":"txn-42"}}`))
	})

	inv, err := c.CreateInvoice(context.Background(), invoiceParams())

	require.NoError(t, err)
	assert.Equal(t, "https://plisio.net/invoice/abc", inv.InvoiceURL)
	assert.Equal(t, "txn-42", inv.TxnID)

	assert.Equal(t, "test-key", q["api_key"])
	assert.Equal(t, "LTC", q["currency"])
	assert.Equal(t, "USD", q["source_currency"])
	assert.Equal(t, "9.99", q["source_amount"])
	assert.Equal(t, "V2Ray Config-1700000000123", q["order_number"])
	assert.Equal(t, "buyer@example.com", q["email"])
	assert.Equal(t, "https://shop.example.com/v1/payment-callback", q["callback_url"])
}

func TestCreateInvoice_ProviderError(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","data":{"message":"invalid api key"}}`))
	})

	_, err := c.CreateInvoice(context.Background(), invoiceParams())
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)
	assert.ErrorContains(t, err, "invalid api key")
}

func TestCreateInvoice_Non2xxWithoutBody(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.CreateInvoice(context.Background(), invoiceParams())
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
}

func TestCreateInvoice_IncompletePayload(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	})

	_, err := c.CreateInvoice(context.Background(), invoiceParams())
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
}

func TestCreateInvoice_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, APIKey: "k", Timeout: time.Second})
	_, err := c.CreateInvoice(context.Background(), invoiceParams())
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
}

func TestGetTransactionStatus(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/txn-42", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"completed"}}`))
	})

	status, err := c.GetTransactionStatus(context.Background(), "txn-42")

	require.NoError(t, err)
	assert.Equal(t, "completed", status)
}

func TestGetTransactionStatus_MissingStatus(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	})

	_, err := c.GetTransactionStatus(context.Background(), "txn-42")
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
}

func TestGetTransactionStatus_ProviderError(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","data":{"message":"not found"}}`))
	})

	_, err := c.GetTransactionStatus(context.Background(), "txn-42")
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)
}
