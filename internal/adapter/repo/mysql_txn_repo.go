package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/confshop/payment-api/internal/entity"
	"github.com/confshop/payment-api/internal/usecase"
)

type MySQLTxnRepo struct{ db *sql.DB }

func NewMySQLTxnRepo(db *sql.DB) *MySQLTxnRepo { return &MySQLTxnRepo{db: db} }

func (r *MySQLTxnRepo) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (txn_id,email,order_number,amount,status,created_at,updated_at)
VALUES (?,?,?,?,?,NOW(),NOW())
`, t.TxnID, t.Email, t.OrderNumber, t.Amount.String(), string(t.Status))
	return err
}

func (r *MySQLTxnRepo) GetByTxnID(ctx context.Context, txnID string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT txn_id,email,order_number,amount,status,created_at,updated_at
FROM transactions WHERE txn_id=?`, txnID)

	var (
		t      domain.Transaction
		amount string
		status string
	)
	if err := row.Scan(&t.TxnID, &t.Email, &t.OrderNumber, &amount, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := t.Amount.Scan(amount); err != nil {
		return nil, err
	}
	t.Status = domain.TxnStatus(status)
	return &t, nil
}

// MarkResolvedIf flips the row only while it still carries `from`.
// rows == 0 means another caller already resolved the transaction.
func (r *MySQLTxnRepo) MarkResolvedIf(ctx context.Context, txnID string, from, to domain.TxnStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE transactions
        SET status = ?, updated_at = NOW()
        WHERE txn_id = ? AND status = ?`,
		string(to), txnID, string(from),
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

var _ usecase.TransactionRepo = (*MySQLTxnRepo)(nil)
