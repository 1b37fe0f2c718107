package usecase

import (
	"context"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/shopspring/decimal"
)

// InventoryClient talks to the spreadsheet-backed inventory service.
type InventoryClient interface {
	// GetInfo is a read with no side effect; implementations must bypass
	// any caching layer so stock numbers are never stale.
	GetInfo(ctx context.Context) (domain.ProductInfo, error)
	// GetConfig atomically fetches one unused config row and removes it
	// from the backing store. Never retried: a retried delete-on-read can
	// consume two configs for one payment.
	GetConfig(ctx context.Context, productName string) (domain.ConfigIssue, error)
}

type CreateInvoiceParams struct {
	Amount      decimal.Decimal
	OrderName   string
	OrderNumber string
	Email       string
}

// GatewayClient talks to the payment provider.
type GatewayClient interface {
	CreateInvoice(ctx context.Context, p CreateInvoiceParams) (domain.Invoice, error)
	// GetTransactionStatus is a pure read; safe to re-poll.
	GetTransactionStatus(ctx context.Context, txnID string) (string, error)
}

// EmailSender delivers the resolved subject/body to the buyer.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TransactionRepo is the durable ledger keyed by gateway txn id.
type TransactionRepo interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByTxnID(ctx context.Context, txnID string) (*domain.Transaction, error)
	// MarkResolvedIf flips status only when the row is still in `from`.
	// false with nil error means another caller already resolved it.
	MarkResolvedIf(ctx context.Context, txnID string, from, to domain.TxnStatus) (bool, error)
}

// ClaimStore is the fast-path de-duplication guard on txn id.
type ClaimStore interface {
	TryClaim(ctx context.Context, txnID string) (bool, error)
	Release(ctx context.Context, txnID string) error
}

// EventPublisher emits audit events; failures must never fail a purchase.
type EventPublisher interface {
	PublishResolved(ctx context.Context, msg PurchaseResolvedMsg) error
}
