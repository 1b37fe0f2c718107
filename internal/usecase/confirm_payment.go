package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/confshop/payment-api/internal/adapter/observ"
	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/logging"
)

var ErrTxnNotFound = errors.New("unknown transaction id")

// State is the coordinator's answer to a confirmation trigger.
type State string

const (
	StatePending   State = "pending"
	StateFulfilled State = "fulfilled"
	StateDeclined  State = "declined"
)

type ConfirmResult struct {
	State State
	// AlreadyResolved is set when another caller won the claim race or
	// the ledger row was already final. The loser must not resend.
	AlreadyResolved bool
}

// ConfirmPayment drives AwaitingConfirmation -> {Fulfilled | Declined}.
// Two triggers feed it: the gateway webhook (status in the payload) and
// the buyer's manual poll (status fetched from the gateway). Fulfillment
// runs at most once per txn id, guarded by a Redis claim plus a
// conditional flip of the durable ledger row.
type ConfirmPayment struct {
	gw       GatewayClient
	repo     TransactionRepo
	claims   ClaimStore
	resolver *ContentResolver
	mail     EmailSender
	events   EventPublisher
}

func NewConfirmPayment(gw GatewayClient, repo TransactionRepo, claims ClaimStore, resolver *ContentResolver, mail EmailSender, events EventPublisher) *ConfirmPayment {
	return &ConfirmPayment{gw: gw, repo: repo, claims: claims, resolver: resolver, mail: mail, events: events}
}

// FromWebhook handles a gateway status callback. The buyer email comes
// from the ledger, not the payload, so a forged callback cannot redirect
// a config.
func (uc *ConfirmPayment) FromWebhook(ctx context.Context, txnID, status string) (ConfirmResult, error) {
	txn, err := uc.lookup(ctx, txnID)
	if err != nil {
		return ConfirmResult{}, err
	}
	return uc.resolve(ctx, txn, domain.MapGatewayStatus(status))
}

// FromPoll handles a buyer-triggered status check. Re-polling is safe:
// the gateway read mutates nothing and a pending outcome changes no
// local state.
func (uc *ConfirmPayment) FromPoll(ctx context.Context, txnID string) (ConfirmResult, error) {
	txn, err := uc.lookup(ctx, txnID)
	if err != nil {
		return ConfirmResult{}, err
	}
	status, err := uc.gw.GetTransactionStatus(ctx, txnID)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("poll status: %w", err)
	}
	return uc.resolve(ctx, txn, domain.MapGatewayStatus(status))
}

func (uc *ConfirmPayment) lookup(ctx context.Context, txnID string) (*domain.Transaction, error) {
	txn, err := uc.repo.GetByTxnID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("lookup txn: %w", err)
	}
	if txn == nil {
		return nil, ErrTxnNotFound
	}
	return txn, nil
}

func (uc *ConfirmPayment) resolve(ctx context.Context, txn *domain.Transaction, outcome domain.Outcome) (ConfirmResult, error) {
	if outcome == domain.OutcomePending {
		return ConfirmResult{State: StatePending}, nil
	}

	state, target := StateFulfilled, domain.TxnStatusFulfilled
	if outcome == domain.OutcomeFailed {
		state, target = StateDeclined, domain.TxnStatusDeclined
	}

	// Fast-path guard: webhook and manual poll can race for the same
	// txn id across instances. Losing the claim is success-without-resend.
	claimed, err := uc.claims.TryClaim(ctx, txn.TxnID)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("claim txn: %w", err)
	}
	if !claimed {
		return ConfirmResult{State: state, AlreadyResolved: true}, nil
	}

	// Durable guard: the conditional update holds even if the claim key
	// expired or Redis was flushed.
	flipped, err := uc.repo.MarkResolvedIf(ctx, txn.TxnID, domain.TxnStatusPending, target)
	if err != nil {
		_ = uc.claims.Release(ctx, txn.TxnID)
		return ConfirmResult{}, fmt.Errorf("mark resolved: %w", err)
	}
	if !flipped {
		return ConfirmResult{State: state, AlreadyResolved: true}, nil
	}

	content, err := uc.resolver.Resolve(ctx, outcome)
	if err != nil {
		if outcome == domain.OutcomeSuccess {
			// The buyer has paid. The claim stays held: an ambiguous
			// inventory response may still have consumed a row, and a
			// webhook redelivery must not risk consuming a second one.
			observ.FulfillmentFailures.Inc()
			logging.FromCtx(ctx).Error("fulfillment failed after payment, manual intervention required",
				"txn_id", txn.TxnID, "email", txn.Email, "error", err)
			return ConfirmResult{}, fmt.Errorf("%w: %v", domain.ErrFulfillmentFailed, err)
		}
		return ConfirmResult{}, fmt.Errorf("resolve content: %w", err)
	}
	if outcome == domain.OutcomeSuccess {
		observ.ConfigsIssued.Inc()
	}

	if err := uc.mail.Send(ctx, txn.Email, content.Subject, content.Body); err != nil {
		if outcome == domain.OutcomeSuccess {
			observ.FulfillmentFailures.Inc()
			logging.FromCtx(ctx).Error("config issued but email undelivered, manual intervention required",
				"txn_id", txn.TxnID, "email", txn.Email, "error", err)
			return ConfirmResult{}, fmt.Errorf("%w: email send: %v", domain.ErrFulfillmentFailed, err)
		}
		return ConfirmResult{}, fmt.Errorf("send email: %w", err)
	}

	observ.PurchasesResolved.WithLabelValues(string(outcome)).Inc()
	uc.publish(ctx, txn, outcome)
	return ConfirmResult{State: state}, nil
}

func (uc *ConfirmPayment) publish(ctx context.Context, txn *domain.Transaction, outcome domain.Outcome) {
	if uc.events == nil {
		return
	}
	msg := PurchaseResolvedMsg{
		TxnID:       txn.TxnID,
		Email:       txn.Email,
		OrderNumber: txn.OrderNumber,
		Amount:      txn.Amount.String(),
		Outcome:     string(outcome),
	}
	if err := uc.events.PublishResolved(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("publish purchase event", "txn_id", txn.TxnID, "error", err)
	}
}
