package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the three-way classification of a payment that drives which
// inventory action and which email template are used.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePending Outcome = "pending"
	OutcomeFailed  Outcome = "failed"
)

// Gateway-side transaction statuses as reported by Plisio.
const (
	GatewayStatusNew       = "new"
	GatewayStatusPending   = "pending"
	GatewayStatusCompleted = "completed"
	GatewayStatusMismatch  = "mismatch"
	GatewayStatusCancelled = "cancelled"
	GatewayStatusExpired   = "expired"
	GatewayStatusError     = "error"
)

// MapGatewayStatus reduces a raw gateway status to an Outcome.
// Unknown statuses map to failed so no config is ever issued on a
// status we do not understand.
func MapGatewayStatus(status string) Outcome {
	switch status {
	case GatewayStatusCompleted, GatewayStatusMismatch:
		return OutcomeSuccess
	case GatewayStatusNew, GatewayStatusPending:
		return OutcomePending
	default:
		return OutcomeFailed
	}
}

// TxnStatus is the lifecycle state of a transaction in the local ledger.
type TxnStatus string

const (
	TxnStatusPending   TxnStatus = "PENDING"
	TxnStatusFulfilled TxnStatus = "FULFILLED"
	TxnStatusDeclined  TxnStatus = "DECLINED"
)

var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrOutOfStock          = errors.New("out of stock")
	ErrPriceUnavailable    = errors.New("price unavailable")
	ErrUpstreamUnavailable = errors.New("inventory service unavailable")
	ErrInvalidResponse     = errors.New("invalid inventory response")
	ErrGatewayRejected     = errors.New("payment gateway rejected the request")
	ErrGatewayUnreachable  = errors.New("payment gateway unreachable")
	ErrFulfillmentFailed   = errors.New("fulfillment failed after payment")
)

// ProductInfo is the live price/stock snapshot. It is fetched fresh on
// every read and never cached or persisted.
type ProductInfo struct {
	Price decimal.Decimal
	Stock int
}

func (p ProductInfo) Validate() error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	if !p.Price.IsPositive() {
		return ErrPriceUnavailable
	}
	return nil
}

// Invoice is a gateway-issued claim with a hosted payment page URL.
type Invoice struct {
	InvoiceURL  string
	TxnID       string
	OrderNumber string
}

// ConfigIssue is one delete-on-read inventory row: the config payload
// plus the price it was sold at.
type ConfigIssue struct {
	Body  string
	Price decimal.Decimal
}

// EmailContent is the resolved notification for one purchase outcome.
// Body carries the config payload only for OutcomeSuccess.
type EmailContent struct {
	Subject  string
	Body     string
	PriceUSD decimal.Decimal
	Stock    int
}

// Transaction is the durable ledger row keyed by the gateway txn id.
type Transaction struct {
	TxnID       string
	Email       string
	OrderNumber string
	Amount      decimal.Decimal
	Status      TxnStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderNumber builds a per-attempt unique order number from the
// product name and a millisecond timestamp.
func NewOrderNumber(productName string, now time.Time) string {
	return fmt.Sprintf("%s-%d", productName, now.UnixMilli())
}
