package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/confshop/payment-api/internal/logging"
	"github.com/confshop/payment-api/internal/usecase"
)

// WebhookHandler receives the gateway's form-encoded status callbacks.
// Response codes drive the gateway's redelivery: 200 means processed
// (including not-final statuses and lost claim races), anything else
// makes the gateway retry.
type WebhookHandler struct {
	confirm *usecase.ConfirmPayment
}

func NewWebhookHandler(confirm *usecase.ConfirmPayment) *WebhookHandler {
	return &WebhookHandler{confirm: confirm}
}

func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	status := c.PostForm("status")
	txnID := c.PostForm("txn_id")
	if status == "" || txnID == "" {
		logging.From(c).Error("incomplete callback payload", "status", status, "txn_id", txnID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete data"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()
	ctx = logging.WithCtx(ctx, logging.From(c))

	res, err := h.confirm.FromWebhook(ctx, txnID, status)
	if err != nil {
		if errors.Is(err, usecase.ErrTxnNotFound) {
			logging.From(c).Error("callback for unknown txn", "txn_id", txnID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction"})
			return
		}
		// Non-2xx so the gateway redelivers; this is the system's only
		// retry mechanism.
		logging.From(c).Error("callback processing failed", "txn_id", txnID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	switch {
	case res.State == usecase.StatePending:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "status is not final, no action taken"})
	case res.AlreadyResolved:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "transaction already resolved"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "webhook processed"})
	}
}
