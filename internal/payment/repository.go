package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsulates data access for the payment ledger.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Record appends a transaction to the ledger. A reference collision maps to
// ErrDuplicatePayment so retried webhook deliveries land exactly once.
func (r *Repository) Record(t *Transaction) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	err := r.DB.Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePayment
	}
	return err
}

// TotalPaid is the authoritative sum over all ledger entries for an
// investment. The reconciliation engine trusts nothing else; summing the
// full ledger every time avoids drift from partially applied increments.
func (r *Repository) TotalPaid(investmentID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.Model(&Transaction{}).
		Where("investment_id = ?", investmentID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListByInvestment returns an investment's payment history, newest first.
func (r *Repository) ListByInvestment(investmentID uint) ([]Transaction, error) {
	var list []Transaction
	err := r.DB.
		Where("investment_id = ?", investmentID).
		Order("timestamp DESC").
		Find(&list).Error
	return list, err
}

// ListByUser returns a user's full payment history, newest first.
func (r *Repository) ListByUser(userID uint) ([]Transaction, error) {
	var list []Transaction
	err := r.DB.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&list).Error
	return list, err
}

// NewManualReference generates a reference for payments entered by an
// administrator rather than the gateway.
func NewManualReference() string {
	return fmt.Sprintf("manual-%s", uuid.NewString())
}
