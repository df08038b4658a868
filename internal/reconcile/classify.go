package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/schedule"
)

// Classify re-derives every installment status from scratch against the
// ledger total. Installments are consumed in order: each one whose amount
// still fits in the remaining total is paid; anything unpaid is overdue or
// upcoming depending on its due date. Rebuilding from zero every time, rather
// than patching incrementally, self-heals from any prior inconsistent state
// and handles lump payments that settle several future installments at once.
//
// Items are mutated in place; the returned indices are the ones that changed.
func Classify(items []schedule.PaymentSchedule, totalPaid decimal.Decimal, today time.Time) []int {
	today = dateOnly(today)
	remaining := totalPaid

	var changed []int
	for i := range items {
		item := &items[i]
		prevStatus := item.Status
		prevDatePaid := item.DatePaid

		if remaining.GreaterThanOrEqual(item.Amount) {
			item.Status = schedule.StatusPaid
			if item.DatePaid == nil {
				paid := today
				item.DatePaid = &paid
			}
			remaining = remaining.Sub(item.Amount)
		} else if dateOnly(item.DueDate).Before(today) {
			item.Status = schedule.StatusOverdue
		} else {
			item.Status = schedule.StatusUpcoming
		}

		if item.Status != prevStatus || !sameDate(item.DatePaid, prevDatePaid) {
			changed = append(changed, i)
		}
	}
	return changed
}

// DeriveStatus rolls the ledger total up into the investment status. A
// completed (or earning) investment never reverts to paying here: a total
// below the agreed amount at that point is an administrative anomaly to be
// surfaced for manual review, not auto-corrected.
func DeriveStatus(current string, totalPaid, agreed decimal.Decimal) (status string, anomaly bool) {
	switch current {
	case investment.StatusCompleted, investment.StatusEarning:
		return current, totalPaid.LessThan(agreed)
	}
	if totalPaid.GreaterThanOrEqual(agreed) {
		return investment.StatusCompleted, false
	}
	if totalPaid.GreaterThan(decimal.Zero) {
		return investment.StatusPaying, false
	}
	return current, false
}

// NextPaymentDate is the due date of the earliest unpaid installment, or nil
// when the schedule is fully settled.
func NextPaymentDate(items []schedule.PaymentSchedule) *time.Time {
	for i := range items {
		if items[i].Status != schedule.StatusPaid {
			due := items[i].DueDate
			return &due
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return dateOnly(*a).Equal(dateOnly(*b))
}
