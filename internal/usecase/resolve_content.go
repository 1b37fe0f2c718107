package usecase

import (
	"context"
	"fmt"

	domain "github.com/confshop/payment-api/internal/entity"
)

const (
	subjectSuccess = "Your config is ready"
	subjectPending = "Order received"
	subjectFailed  = "Payment failed"

	bodyPending = "We received your order and are waiting for the payment " +
		"to confirm. Your config will be emailed as soon as the network " +
		"confirms the transaction."
	bodyFailed = "Unfortunately your payment did not complete. No funds were " +
		"captured on our side. If you believe this is a mistake, reply to " +
		"this email and we will sort it out."
)

// ContentResolver picks subject/body/price for a purchase outcome.
// Exactly one branch runs per call; only the success branch consumes
// inventory.
type ContentResolver struct {
	inv     InventoryClient
	product string
}

func NewContentResolver(inv InventoryClient, product string) *ContentResolver {
	return &ContentResolver{inv: inv, product: product}
}

func (r *ContentResolver) Resolve(ctx context.Context, outcome domain.Outcome) (domain.EmailContent, error) {
	switch outcome {
	case domain.OutcomeSuccess:
		issue, err := r.inv.GetConfig(ctx, r.product)
		if err != nil {
			return domain.EmailContent{}, fmt.Errorf("fetch config: %w", err)
		}
		// Never send a $0 config: a missing price after payment is a
		// fulfillment failure, not a discount.
		if !issue.Price.IsPositive() {
			return domain.EmailContent{}, fmt.Errorf("%w: config row has price %s", domain.ErrFulfillmentFailed, issue.Price)
		}
		return domain.EmailContent{
			Subject:  subjectSuccess,
			Body:     issue.Body,
			PriceUSD: issue.Price,
		}, nil

	case domain.OutcomePending:
		// Read-only peek; a pending payment must not consume a row.
		info, err := r.inv.GetInfo(ctx)
		if err != nil {
			return domain.EmailContent{}, fmt.Errorf("product info: %w", err)
		}
		return domain.EmailContent{
			Subject:  subjectPending,
			Body:     bodyPending,
			PriceUSD: info.Price,
			Stock:    info.Stock,
		}, nil

	default:
		return domain.EmailContent{
			Subject: subjectFailed,
			Body:    bodyFailed,
		}, nil
	}
}
