package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/confshop/payment-api/internal/entity"
)

func TestResolve_SuccessConsumesOneConfig(t *testing.T) {
	inv := &mockInventory{issue: domain.ConfigIssue{Body: "vless://secret", Price: decimal.NewFromFloat(9.99)}}
	r := NewContentResolver(inv, testProduct)

	content, err := r.Resolve(context.Background(), domain.OutcomeSuccess)

	require.NoError(t, err)
	assert.Equal(t, "vless://secret", content.Body)
	assert.Equal(t, "9.99", content.PriceUSD.String())
	assert.Equal(t, 1, inv.configCalls)
	assert.Equal(t, 0, inv.infoCalls)
}

func TestResolve_SuccessWithZeroPriceFails(t *testing.T) {
	// A $0 config after a successful payment is a fulfillment failure,
	// never something to email out.
	inv := &mockInventory{issue: domain.ConfigIssue{Body: "vless://secret", Price: decimal.Zero}}
	r := NewContentResolver(inv, testProduct)

	_, err := r.Resolve(context.Background(), domain.OutcomeSuccess)
	assert.ErrorIs(t, err, domain.ErrFulfillmentFailed)
}

func TestResolve_PendingDoesNotConsume(t *testing.T) {
	inv := &mockInventory{info: domain.ProductInfo{Price: decimal.NewFromFloat(9.99), Stock: 4}}
	r := NewContentResolver(inv, testProduct)

	content, err := r.Resolve(context.Background(), domain.OutcomePending)

	require.NoError(t, err)
	assert.Equal(t, "Order received", content.Subject)
	assert.NotContains(t, content.Body, "vless://")
	assert.Equal(t, 0, inv.configCalls)
	assert.Equal(t, 1, inv.infoCalls)
	assert.Equal(t, 4, content.Stock)
}

func TestResolve_FailedMakesNoInventoryCalls(t *testing.T) {
	inv := &mockInventory{}
	r := NewContentResolver(inv, testProduct)

	content, err := r.Resolve(context.Background(), domain.OutcomeFailed)

	require.NoError(t, err)
	assert.Equal(t, "Payment failed", content.Subject)
	assert.NotEmpty(t, content.Body)
	assert.Equal(t, 0, inv.configCalls)
	assert.Equal(t, 0, inv.infoCalls)
}

func TestResolve_SuccessOutOfStockSurfaces(t *testing.T) {
	inv := &mockInventory{issueErr: domain.ErrOutOfStock}
	r := NewContentResolver(inv, testProduct)

	_, err := r.Resolve(context.Background(), domain.OutcomeSuccess)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}
