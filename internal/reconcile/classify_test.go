package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/schedule"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// monthlySchedule builds three 300.00 installments starting at start.
func monthlySchedule(start time.Time) []schedule.PaymentSchedule {
	items := make([]schedule.PaymentSchedule, 3)
	for i := range items {
		items[i] = schedule.PaymentSchedule{
			ID:                uint(i + 1),
			InstallmentNumber: i + 1,
			Amount:            d("300.00"),
			DueDate:           start.AddDate(0, 0, 30*i),
			Status:            schedule.StatusUpcoming,
		}
	}
	return items
}

func TestClassifyLumpPaymentCoversSeveralInstallments(t *testing.T) {
	today := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	items := monthlySchedule(today.AddDate(0, 0, 1))

	changed := Classify(items, d("700.00"), today)

	assert.Equal(t, schedule.StatusPaid, items[0].Status)
	assert.Equal(t, schedule.StatusPaid, items[1].Status)
	assert.Equal(t, schedule.StatusUpcoming, items[2].Status)
	require.NotNil(t, items[0].DatePaid)
	require.NotNil(t, items[1].DatePaid)
	assert.Nil(t, items[2].DatePaid)
	assert.Len(t, changed, 2)
}

func TestClassifyUnpaidPastDueIsOverdue(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today.AddDate(0, 0, -40)) // first two due dates are in the past

	Classify(items, d("300.00"), today)

	assert.Equal(t, schedule.StatusPaid, items[0].Status)
	assert.Equal(t, schedule.StatusOverdue, items[1].Status)
	assert.Equal(t, schedule.StatusUpcoming, items[2].Status)
}

func TestClassifyDueTodayIsNotOverdue(t *testing.T) {
	today := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	items := monthlySchedule(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	Classify(items, decimal.Zero, today)

	assert.Equal(t, schedule.StatusUpcoming, items[0].Status)
}

func TestClassifyIsIdempotent(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today.AddDate(0, 0, -40))

	first := Classify(items, d("700.00"), today)
	assert.NotEmpty(t, first)

	second := Classify(items, d("700.00"), today)
	assert.Empty(t, second, "re-deriving the same total must change nothing")
}

func TestClassifySelfHealsFromInconsistentState(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today.AddDate(0, 0, 1))

	// Simulate a botched manual edit: last item marked paid, first not.
	paid := today
	items[2].Status = schedule.StatusPaid
	items[2].DatePaid = &paid

	Classify(items, d("300.00"), today)

	assert.Equal(t, schedule.StatusPaid, items[0].Status)
	assert.Equal(t, schedule.StatusUpcoming, items[1].Status)
	assert.Equal(t, schedule.StatusUpcoming, items[2].Status)
}

func TestClassifyPreservesOriginalDatePaid(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today)

	earlier := today.AddDate(0, 0, -10)
	items[0].Status = schedule.StatusPaid
	items[0].DatePaid = &earlier

	changed := Classify(items, d("300.00"), today)

	assert.True(t, items[0].DatePaid.Equal(earlier), "date_paid is set once, never overwritten")
	assert.Empty(t, changed)
}

func TestClassifyMonotonicPayoff(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today)

	totals := []string{"0.00", "150.00", "300.00", "450.00", "600.00", "899.99", "900.00"}
	prevPaid := -1
	for _, total := range totals {
		Classify(items, d(total), today)
		paid := 0
		for _, item := range items {
			if item.Status == schedule.StatusPaid {
				paid++
			}
		}
		assert.GreaterOrEqual(t, paid, prevPaid, "paid count must never decrease (total %s)", total)
		prevPaid = paid
	}
	assert.Equal(t, 3, prevPaid)
}

func TestClassifyEmptyScheduleIsANoOp(t *testing.T) {
	changed := Classify(nil, d("100.00"), time.Now())
	assert.Empty(t, changed)
}

func TestDeriveStatusTransitions(t *testing.T) {
	agreed := d("900.00")

	status, anomaly := DeriveStatus(investment.StatusPending, decimal.Zero, agreed)
	assert.Equal(t, investment.StatusPending, status)
	assert.False(t, anomaly)

	status, _ = DeriveStatus(investment.StatusPending, d("700.00"), agreed)
	assert.Equal(t, investment.StatusPaying, status)

	status, _ = DeriveStatus(investment.StatusPaying, d("900.00"), agreed)
	assert.Equal(t, investment.StatusCompleted, status)

	status, _ = DeriveStatus(investment.StatusPaying, d("950.00"), agreed)
	assert.Equal(t, investment.StatusCompleted, status)
}

func TestDeriveStatusNeverRevertsCompleted(t *testing.T) {
	agreed := d("900.00")

	// A correction dropped the ledger total below the threshold. Status
	// stays completed; the anomaly flag surfaces it for manual review.
	status, anomaly := DeriveStatus(investment.StatusCompleted, d("600.00"), agreed)
	assert.Equal(t, investment.StatusCompleted, status)
	assert.True(t, anomaly)

	status, anomaly = DeriveStatus(investment.StatusEarning, d("600.00"), agreed)
	assert.Equal(t, investment.StatusEarning, status)
	assert.True(t, anomaly)

	status, anomaly = DeriveStatus(investment.StatusCompleted, d("900.00"), agreed)
	assert.Equal(t, investment.StatusCompleted, status)
	assert.False(t, anomaly)
}

func TestNextPaymentDate(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := monthlySchedule(today)

	Classify(items, d("300.00"), today)
	next := NextPaymentDate(items)
	require.NotNil(t, next)
	assert.True(t, next.Equal(items[1].DueDate))

	Classify(items, d("900.00"), today)
	assert.Nil(t, NextPaymentDate(items))
}
