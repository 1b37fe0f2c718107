package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/usecase"
)

// Client talks to the Apps Script web app backing the spreadsheet.
// The remote side owns atomicity of the delete-on-read verb; this client
// only ever asks for a single verb and treats anything ambiguous as
// failure.
type Client struct {
	http    *resty.Client
	product string
}

func New(baseURL, product string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Cache-Control", "no-store")
	return &Client{http: c, product: product}
}

type sheetResponse struct {
	Price     *decimal.Decimal `json:"price"`
	Stock     *int             `json:"stock"`
	EmailBody string           `json:"emailBody"`
	Error     string           `json:"error"`
}

func (c *Client) GetInfo(ctx context.Context) (domain.ProductInfo, error) {
	body, err := c.call(ctx, "getInfo", c.product)
	if err != nil {
		return domain.ProductInfo{}, err
	}
	if body.Price == nil || body.Stock == nil {
		return domain.ProductInfo{}, fmt.Errorf("%w: price or stock missing", domain.ErrInvalidResponse)
	}
	return domain.ProductInfo{Price: *body.Price, Stock: *body.Stock}, nil
}

func (c *Client) GetConfig(ctx context.Context, productName string) (domain.ConfigIssue, error) {
	body, err := c.call(ctx, "getConfig", productName)
	if err != nil {
		return domain.ConfigIssue{}, err
	}
	if body.EmailBody == "" {
		return domain.ConfigIssue{}, domain.ErrOutOfStock
	}
	if body.Price == nil {
		return domain.ConfigIssue{}, fmt.Errorf("%w: config row without price", domain.ErrInvalidResponse)
	}
	return domain.ConfigIssue{Body: body.EmailBody, Price: *body.Price}, nil
}

func (c *Client) call(ctx context.Context, action, productName string) (*sheetResponse, error) {
	var body sheetResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":      action,
			"productName": productName,
		}).
		SetResult(&body).
		ForceContentType("application/json"). // Apps Script may answer text/plain
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode())
	}
	if body.Error != "" {
		if action == "getConfig" && body.Error == "out of stock" {
			return nil, domain.ErrOutOfStock
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, body.Error)
	}
	return &body, nil
}

var _ usecase.InventoryClient = (*Client)(nil)
