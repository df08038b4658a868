package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrDuplicatePayment indicates a payment reference that was already
// recorded. Callers treat it as already-applied, not as a failure.
var ErrDuplicatePayment = errors.New("payment reference already recorded")

// Transaction is one confirmed payment against an investment. The ledger is
// append-only: rows are never updated or deleted, and the unique payment
// reference is the sole defense against duplicate webhook delivery.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"userId"`
	InvestmentID uint            `gorm:"not null;index" json:"investmentId"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	// Snapshot of the project location, kept in case the project moves.
	Location string `gorm:"size:255" json:"location"`
	// Advisory: the installment this payment was intended to settle.
	InstallmentNumber *int      `json:"installmentNumber"`
	Timestamp         time.Time `gorm:"not null;index" json:"timestamp"`
	// Nullable only for manually entered historical records.
	PaymentReference *string   `gorm:"size:100;uniqueIndex" json:"paymentReference"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Migrate creates the transactions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Transaction{})
}
