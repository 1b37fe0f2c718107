package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/usecase"
)

type Options struct {
	BaseURL        string
	APIKey         string
	Currency       string // invoice currency, e.g. LTC
	SourceCurrency string // pricing currency, e.g. USD
	CallbackURL    string
	SuccessURL     string
	FailURL        string
	Timeout        time.Duration
}

// Client is the Plisio adapter: invoice creation and status reads over
// its query-string driven JSON API.
type Client struct {
	http *resty.Client
	opts Options
}

func New(opts Options) *Client {
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout)
	return &Client{http: c, opts: opts}
}

type apiResponse struct {
	Status string `json:"status"` // "success" | "error"
	Data   struct {
		InvoiceURL string `json:"invoice_url"`
		TxnID      string `json:"txn_id"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	} `json:"data"`
}

func (c *Client) CreateInvoice(ctx context.Context, p usecase.CreateInvoiceParams) (domain.Invoice, error) {
	var body apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":         c.opts.APIKey,
			"currency":        c.opts.Currency,
			"source_currency": c.opts.SourceCurrency,
			"source_amount":   p.Amount.String(),
			"order_name":      p.OrderName,
			"order_number":    p.OrderNumber,
			"email":           p.Email,
			"callback_url":    c.opts.CallbackURL,
			"success_url":     c.opts.SuccessURL,
			"fail_url":        c.opts.FailURL,
		}).
		SetResult(&body).
		SetError(&body).
		Get("/invoices/new")
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	if err := checkAPIError(resp, &body); err != nil {
		return domain.Invoice{}, err
	}
	if body.Data.InvoiceURL == "" || body.Data.TxnID == "" {
		return domain.Invoice{}, fmt.Errorf("%w: incomplete invoice payload", domain.ErrGatewayUnreachable)
	}
	return domain.Invoice{
		InvoiceURL:  body.Data.InvoiceURL,
		TxnID:       body.Data.TxnID,
		OrderNumber: p.OrderNumber,
	}, nil
}

func (c *Client) GetTransactionStatus(ctx context.Context, txnID string) (string, error) {
	var body apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.opts.APIKey).
		SetPathParam("txn_id", txnID).
		SetResult(&body).
		SetError(&body).
		Get("/operations/{txn_id}")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	if err := checkAPIError(resp, &body); err != nil {
		return "", err
	}
	if body.Data.Status == "" {
		return "", fmt.Errorf("%w: transaction status missing", domain.ErrGatewayUnreachable)
	}
	return body.Data.Status, nil
}

func checkAPIError(resp *resty.Response, body *apiResponse) error {
	if body.Status == "error" {
		msg := body.Data.Message
		if msg == "" {
			msg = "unknown provider error"
		}
		return fmt.Errorf("%w: %s", domain.ErrGatewayRejected, msg)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", domain.ErrGatewayUnreachable, resp.StatusCode())
	}
	return nil
}

var _ usecase.GatewayClient = (*Client)(nil)
