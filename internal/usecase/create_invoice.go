package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/confshop/payment-api/internal/adapter/observ"
	domain "github.com/confshop/payment-api/internal/entity"
)

type CreateInvoiceInput struct {
	Email string
}

type CreateInvoiceOutput struct {
	InvoiceURL  string
	TxnID       string
	OrderNumber string
}

// CreateInvoice drives Created -> InvoicePending: validate the buyer's
// email, check live stock/price, create a gateway invoice and record the
// pending transaction so a later webhook or poll can be correlated.
type CreateInvoice struct {
	inv     InventoryClient
	gw      GatewayClient
	repo    TransactionRepo
	product string
	now     func() time.Time
}

func NewCreateInvoice(inv InventoryClient, gw GatewayClient, repo TransactionRepo, product string) *CreateInvoice {
	return &CreateInvoice{inv: inv, gw: gw, repo: repo, product: product, now: time.Now}
}

func (uc *CreateInvoice) Execute(ctx context.Context, in CreateInvoiceInput) (CreateInvoiceOutput, error) {
	// Reject before any external call.
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return CreateInvoiceOutput{}, domain.ErrInvalidEmail
	}

	info, err := uc.inv.GetInfo(ctx)
	if err != nil {
		return CreateInvoiceOutput{}, fmt.Errorf("product info: %w", err)
	}
	if err := info.Validate(); err != nil {
		return CreateInvoiceOutput{}, err
	}

	orderNumber := domain.NewOrderNumber(uc.product, uc.now())
	invoice, err := uc.gw.CreateInvoice(ctx, CreateInvoiceParams{
		Amount:      info.Price,
		OrderName:   uc.product,
		OrderNumber: orderNumber,
		Email:       in.Email,
	})
	if err != nil {
		return CreateInvoiceOutput{}, fmt.Errorf("create invoice: %w", err)
	}

	// Without this row the webhook cannot be correlated back to the buyer.
	if err := uc.repo.Create(ctx, &domain.Transaction{
		TxnID:       invoice.TxnID,
		Email:       in.Email,
		OrderNumber: orderNumber,
		Amount:      info.Price,
		Status:      domain.TxnStatusPending,
	}); err != nil {
		return CreateInvoiceOutput{}, fmt.Errorf("record pending txn: %w", err)
	}

	observ.InvoicesCreated.Inc()
	return CreateInvoiceOutput{
		InvoiceURL:  invoice.InvoiceURL,
		TxnID:       invoice.TxnID,
		OrderNumber: orderNumber,
	}, nil
}
