package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Installment statuses. Only the reconciliation engine (and administrative
// correction) may move an item between them.
const (
	StatusUpcoming = "upcoming"
	StatusPending  = "pending"
	StatusOverdue  = "overdue"
	StatusPaid     = "paid"
)

// PaymentSchedule is a single dated installment of an investment. Amount and
// due date are fixed at generation time; status and date_paid are the only
// fields that change afterwards.
type PaymentSchedule struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	InvestmentID      uint            `gorm:"not null;uniqueIndex:idx_investment_installment" json:"investmentId"`
	InstallmentNumber int             `gorm:"not null;uniqueIndex:idx_investment_installment" json:"installmentNumber"`
	Title             string          `gorm:"size:100;not null" json:"title"`
	DueDate           time.Time       `gorm:"not null;index:idx_status_due,priority:2" json:"dueDate"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status            string          `gorm:"size:20;not null;default:'upcoming';index:idx_status_due,priority:1" json:"status"`
	DatePaid          *time.Time      `json:"datePaid"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Migrate creates the schedule table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PaymentSchedule{})
}
