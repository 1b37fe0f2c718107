package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/logging"
	"github.com/confshop/payment-api/internal/usecase"
)

type CheckoutHandler struct {
	create  *usecase.CreateInvoice
	confirm *usecase.ConfirmPayment
	inv     usecase.InventoryClient
}

func NewCheckoutHandler(create *usecase.CreateInvoice, confirm *usecase.ConfirmPayment, inv usecase.InventoryClient) *CheckoutHandler {
	return &CheckoutHandler{create: create, confirm: confirm, inv: inv}
}

// GetProduct returns the live price/stock snapshot for the storefront
// page. Always a fresh read, never cached.
func (h *CheckoutHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 6*time.Second)
	defer cancel()

	info, err := h.inv.GetInfo(ctx)
	if err != nil {
		logging.From(c).Error("product info", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the product server, please try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"price": info.Price.String(),
		"stock": info.Stock,
	})
}

type checkoutReq struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateCheckout starts one purchase attempt: stock/price check, gateway
// invoice, pending transaction row. The caller redirects the buyer to
// invoice_url.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email address is required", "invoice_url": nil})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateInvoiceInput{Email: req.Email})
	if err != nil {
		status, msg := checkoutError(err)
		logging.From(c).Error("create checkout", "error", err)
		c.JSON(status, gin.H{"error": msg, "invoice_url": nil})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice_url":  out.InvoiceURL,
		"txn_id":       out.TxnID,
		"order_number": out.OrderNumber,
	})
}

// PollStatus is the manual confirmation trigger for the processing page.
// Pending outcomes change nothing and may be retried.
func (h *CheckoutHandler) PollStatus(c *gin.Context) {
	txnID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	res, err := h.confirm.FromPoll(ctx, txnID)
	if err != nil {
		if errors.Is(err, usecase.ErrTxnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown transaction"})
			return
		}
		status, msg := checkoutError(err)
		logging.From(c).Error("poll status", "txn_id", txnID, "error", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	resp := gin.H{"state": string(res.State)}
	if res.AlreadyResolved {
		resp["already_resolved"] = true
	}
	c.JSON(http.StatusOK, resp)
}

// checkoutError converts internal failures into a user-safe status and
// message. Details never leave the logs.
func checkoutError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, "a valid email address is required"
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "out of stock"
	case errors.Is(err, domain.ErrPriceUnavailable):
		return http.StatusConflict, "product price is unavailable, please try again later"
	case errors.Is(err, domain.ErrGatewayRejected):
		return http.StatusBadGateway, "the payment provider rejected the request, please try again or contact support"
	case errors.Is(err, domain.ErrGatewayUnreachable):
		return http.StatusBadGateway, "could not reach the payment provider, please try again later"
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway, "could not reach the product server, please try again later"
	case errors.Is(err, domain.ErrFulfillmentFailed):
		return http.StatusInternalServerError, "your payment was received but delivery failed, support has been notified"
	default:
		return http.StatusInternalServerError, "internal error, please contact support"
	}
}
