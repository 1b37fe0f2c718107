package usecase

import (
	"context"

	domain "github.com/confshop/payment-api/internal/entity"
)

// mockInventory implements InventoryClient for testing
type mockInventory struct {
	info        domain.ProductInfo
	infoErr     error
	issue       domain.ConfigIssue
	issueErr    error
	infoCalls   int
	configCalls int
}

func (m *mockInventory) GetInfo(_ context.Context) (domain.ProductInfo, error) {
	m.infoCalls++
	return m.info, m.infoErr
}

func (m *mockInventory) GetConfig(_ context.Context, _ string) (domain.ConfigIssue, error) {
	m.configCalls++
	return m.issue, m.issueErr
}

// mockGateway implements GatewayClient for testing
type mockGateway struct {
	invoice     domain.Invoice
	invoiceErr  error
	status      string
	statusErr   error
	createCalls int
	lastParams  CreateInvoiceParams
}

func (m *mockGateway) CreateInvoice(_ context.Context, p CreateInvoiceParams) (domain.Invoice, error) {
	m.createCalls++
	m.lastParams = p
	return m.invoice, m.invoiceErr
}

func (m *mockGateway) GetTransactionStatus(_ context.Context, _ string) (string, error) {
	return m.status, m.statusErr
}

// mockTxnRepo implements TransactionRepo for testing
type mockTxnRepo struct {
	created   []*domain.Transaction
	createErr error
	txn       *domain.Transaction
	getErr    error
	flip      bool
	flipErr   error
	flipCalls int
	lastFlip  domain.TxnStatus
}

func (m *mockTxnRepo) Create(_ context.Context, t *domain.Transaction) error {
	m.created = append(m.created, t)
	return m.createErr
}

func (m *mockTxnRepo) GetByTxnID(_ context.Context, _ string) (*domain.Transaction, error) {
	return m.txn, m.getErr
}

func (m *mockTxnRepo) MarkResolvedIf(_ context.Context, _ string, _, to domain.TxnStatus) (bool, error) {
	m.flipCalls++
	m.lastFlip = to
	return m.flip, m.flipErr
}

// mockClaims implements ClaimStore for testing
type mockClaims struct {
	results  []bool // consumed per TryClaim call, last value repeats
	claimErr error
	claims   int
	released []string
}

func (m *mockClaims) TryClaim(_ context.Context, _ string) (bool, error) {
	m.claims++
	if m.claimErr != nil {
		return false, m.claimErr
	}
	if len(m.results) == 0 {
		return true, nil
	}
	r := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return r, nil
}

func (m *mockClaims) Release(_ context.Context, txnID string) error {
	m.released = append(m.released, txnID)
	return nil
}

type sentMail struct {
	to, subject, body string
}

// mockMailer implements EmailSender for testing
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

// mockEvents implements EventPublisher for testing
type mockEvents struct {
	msgs []PurchaseResolvedMsg
	err  error
}

func (m *mockEvents) PublishResolved(_ context.Context, msg PurchaseResolvedMsg) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}
