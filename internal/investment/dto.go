package investment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/terravest/investment-api/internal/schedule"
)

// SummaryDTO is the read-only dashboard view of an investment.
type SummaryDTO struct {
	ID                   uint                      `json:"id"`
	ProjectName          string                    `json:"projectName"`
	Location             string                    `json:"location"`
	InvestmentType       string                    `json:"investmentType"`
	PlanName             string                    `json:"planName"`
	Status               string                    `json:"status"`
	AgreedAmount         decimal.Decimal           `json:"agreedAmount"`
	AmountPaid           decimal.Decimal           `json:"amountPaid"`
	Balance              decimal.Decimal           `json:"balance"`
	PercentageCompletion decimal.Decimal           `json:"percentageCompletion"`
	StartDate            time.Time                 `json:"startDate"`
	NextPaymentDate      *time.Time                `json:"nextPaymentDate"`
	NextInstallment      *schedule.PaymentSchedule `json:"nextInstallment,omitempty"`
}

// ToSummaryDTO projects an investment (with pricing preloaded) into its
// dashboard form. NextInstallment is the first unpaid schedule item, when the
// schedule is loaded.
func ToSummaryDTO(inv *Investment) SummaryDTO {
	dto := SummaryDTO{
		ID:                   inv.ID,
		ProjectName:          inv.Pricing.Project.Name,
		Location:             inv.Pricing.Project.Location,
		InvestmentType:       inv.Pricing.Project.InvestmentType,
		PlanName:             inv.Pricing.Plan.Name,
		Status:               inv.Status,
		AgreedAmount:         inv.AgreedAmount,
		AmountPaid:           inv.AmountPaid,
		Balance:              inv.Balance(),
		PercentageCompletion: inv.PercentageCompletion(),
		StartDate:            inv.StartDate,
		NextPaymentDate:      inv.NextPaymentDate,
	}
	for idx := range inv.Schedules {
		if inv.Schedules[idx].Status != schedule.StatusPaid {
			dto.NextInstallment = &inv.Schedules[idx]
			break
		}
	}
	return dto
}
