package http

import (
	"context"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/usecase"
)

// mockInventory implements usecase.InventoryClient for testing
type mockInventory struct {
	info        domain.ProductInfo
	infoErr     error
	issue       domain.ConfigIssue
	issueErr    error
	configCalls int
}

func (m *mockInventory) GetInfo(_ context.Context) (domain.ProductInfo, error) {
	return m.info, m.infoErr
}

func (m *mockInventory) GetConfig(_ context.Context, _ string) (domain.ConfigIssue, error) {
	m.configCalls++
	return m.issue, m.issueErr
}

// mockGateway implements usecase.GatewayClient for testing
type mockGateway struct {
	invoice     domain.Invoice
	invoiceErr  error
	status      string
	statusErr   error
	createCalls int
}

func (m *mockGateway) CreateInvoice(_ context.Context, _ usecase.CreateInvoiceParams) (domain.Invoice, error) {
	m.createCalls++
	return m.invoice, m.invoiceErr
}

func (m *mockGateway) GetTransactionStatus(_ context.Context, _ string) (string, error) {
	return m.status, m.statusErr
}

// mockTxnRepo implements usecase.TransactionRepo for testing
type mockTxnRepo struct {
	txn     *domain.Transaction
	getErr  error
	created []*domain.Transaction
	flip    bool
	flipErr error
}

func (m *mockTxnRepo) Create(_ context.Context, t *domain.Transaction) error {
	m.created = append(m.created, t)
	return nil
}

func (m *mockTxnRepo) GetByTxnID(_ context.Context, _ string) (*domain.Transaction, error) {
	return m.txn, m.getErr
}

func (m *mockTxnRepo) MarkResolvedIf(_ context.Context, _ string, _, _ domain.TxnStatus) (bool, error) {
	return m.flip, m.flipErr
}

// mockClaims implements usecase.ClaimStore for testing
type mockClaims struct {
	claim    bool
	released []string
}

func (m *mockClaims) TryClaim(_ context.Context, _ string) (bool, error) {
	return m.claim, nil
}

func (m *mockClaims) Release(_ context.Context, txnID string) error {
	m.released = append(m.released, txnID)
	return nil
}

type sentMail struct {
	to, subject, body string
}

// mockMailer implements usecase.EmailSender for testing
type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
