package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terravest/investment-api/internal/plan"
)

// Build partitions an agreed amount into dated installments for the given
// cadence. Every installment carries the rounded per-cycle amount except the
// last, which absorbs the rounding remainder so the sum is exact to the cent.
func Build(total decimal.Decimal, paymentMode string, durationDays int, start time.Time) ([]PaymentSchedule, error) {
	cycles, err := plan.Cycles(paymentMode, durationDays)
	if err != nil {
		return nil, err
	}
	interval, _ := plan.CycleLength(paymentMode)

	base := total.Div(decimal.NewFromInt(int64(cycles))).Round(2)

	items := make([]PaymentSchedule, 0, cycles)
	for i := 1; i <= cycles; i++ {
		amount := base
		if i == cycles {
			amount = total.Sub(base.Mul(decimal.NewFromInt(int64(cycles - 1))))
		}

		title := "Full Payment"
		if cycles > 1 {
			title = fmt.Sprintf("Installment %d", i)
		}

		items = append(items, PaymentSchedule{
			InstallmentNumber: i,
			Title:             title,
			DueDate:           start.AddDate(0, 0, interval*(i-1)),
			Amount:            amount,
			Status:            StatusUpcoming,
		})
	}
	return items, nil
}
