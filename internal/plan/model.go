package plan

import (
	"errors"

	"gorm.io/gorm"
)

// Payment cadences supported by investment plans.
const (
	ModeWeekly  = "weekly"
	ModeMonthly = "monthly"
	ModeOneTime = "one_time"
)

// ErrInvalidCadence indicates a payment mode outside the supported set.
var ErrInvalidCadence = errors.New("invalid payment cadence")

// InvestmentPlan defines only the structure of time, not the price.
type InvestmentPlan struct {
	gorm.Model
	Name         string `gorm:"size:255;not null" json:"name"`
	DurationDays int    `gorm:"not null" json:"durationDays"`
	PaymentMode  string `gorm:"size:20;not null;index" json:"paymentMode"`
}

// CycleLength returns the cadence length in days (0 for one-time).
func CycleLength(mode string) (int, error) {
	switch mode {
	case ModeWeekly:
		return 7, nil
	case ModeMonthly:
		return 30, nil
	case ModeOneTime:
		return 0, nil
	default:
		return 0, ErrInvalidCadence
	}
}

// Cycles returns how many installments a plan spans. A plan shorter than one
// cadence period collapses to a single installment rather than failing.
func Cycles(mode string, durationDays int) (int, error) {
	length, err := CycleLength(mode)
	if err != nil {
		return 0, err
	}
	if length == 0 {
		return 1, nil
	}
	cycles := durationDays / length
	if cycles < 1 {
		cycles = 1
	}
	return cycles, nil
}

// Migrate creates the plans table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&InvestmentPlan{})
}
