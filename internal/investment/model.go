package investment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/pricing"
	"github.com/terravest/investment-api/internal/schedule"
)

// Investment statuses.
const (
	StatusPending   = "pending"   // created, nothing paid yet
	StatusPaying    = "paying"    // partially paid
	StatusCompleted = "completed" // fully paid
	StatusEarning   = "earning"   // completed and past the ROI start date
)

// ErrClosedProject indicates an investment attempted against an inactive project.
var ErrClosedProject = errors.New("project is closed to new investments")

// Investment is a user's acceptance of a priced offer. AgreedAmount and
// InstallmentAmount are frozen at creation time; AmountPaid, Status and
// NextPaymentDate are owned by the reconciliation engine thereafter.
type Investment struct {
	ID                uint                       `gorm:"primaryKey" json:"id"`
	UserID            uint                       `gorm:"not null;index" json:"userId"`
	PricingID         uint                       `gorm:"not null;index" json:"pricingId"`
	Pricing           pricing.ProjectPricing     `gorm:"foreignKey:PricingID;constraint:OnDelete:RESTRICT" json:"pricing"`
	AgreedAmount      decimal.Decimal            `gorm:"type:numeric(12,2);not null" json:"agreedAmount"`
	InstallmentAmount decimal.Decimal            `gorm:"type:numeric(12,2);not null" json:"installmentAmount"`
	AmountPaid        decimal.Decimal            `gorm:"type:numeric(12,2);not null;default:0" json:"amountPaid"`
	Status            string                     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	StartDate         time.Time                  `gorm:"not null" json:"startDate"`
	NextPaymentDate   *time.Time                 `json:"nextPaymentDate"`
	Schedules         []schedule.PaymentSchedule `gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
	CreatedAt         time.Time                  `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
}

// Balance is what remains to be paid, floored at zero.
func (i *Investment) Balance() decimal.Decimal {
	b := i.AgreedAmount.Sub(i.AmountPaid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// PercentageCompletion is how much of the agreed amount has been paid, in
// percent rounded to two decimals.
func (i *Investment) PercentageCompletion() decimal.Decimal {
	if i.AgreedAmount.IsZero() {
		return decimal.Zero
	}
	return i.AmountPaid.
		Div(i.AgreedAmount).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// Migrate creates the investments table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Investment{})
}
