package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/plan"
	"github.com/terravest/investment-api/internal/project"
)

// ErrDuplicateOffer indicates a second pricing for the same (project, plan) pair.
var ErrDuplicateOffer = errors.New("pricing already exists for this project and plan")

// ProjectPricing bridges a project and a plan into a priced offer. Immutable
// once investments reference it.
type ProjectPricing struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	ProjectID      uint                      `gorm:"not null;uniqueIndex:idx_project_plan" json:"projectId"`
	PlanID         uint                      `gorm:"not null;uniqueIndex:idx_project_plan" json:"planId"`
	Project        project.InvestmentProject `gorm:"constraint:OnDelete:CASCADE" json:"project"`
	Plan           plan.InvestmentPlan       `gorm:"constraint:OnDelete:CASCADE" json:"plan"`
	TotalPrice     decimal.Decimal           `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	MinimumDeposit decimal.Decimal           `gorm:"type:numeric(12,2);not null" json:"minimumDeposit"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

// ComputeMinimumDeposit derives the per-cycle deposit from the cadence. A
// one-time plan requires the full price up front; anything shorter than one
// cadence period collapses to a single cycle.
func ComputeMinimumDeposit(total decimal.Decimal, paymentMode string, durationDays int) (decimal.Decimal, error) {
	if paymentMode == plan.ModeOneTime {
		return total, nil
	}
	cycles, err := plan.Cycles(paymentMode, durationDays)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Div(decimal.NewFromInt(int64(cycles))).Round(2), nil
}

// Migrate creates the pricing table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProjectPricing{})
}
