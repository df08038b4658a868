package reconcile

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/schedule"
)

// Engine re-derives an investment's schedule statuses and summary fields from
// the payment ledger. It is the only writer of amount_paid, investment status
// and next_payment_date; everything else is a read-only consumer.
type Engine struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewEngine(db *gorm.DB, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{DB: db, Log: log}
}

// Reconcile runs one reconciliation pass in its own transaction. Call it
// after every ledger mutation for the investment.
func (e *Engine) Reconcile(investmentID uint) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		return e.ReconcileTx(tx, investmentID)
	})
}

// ReconcileTx runs the pass inside an existing transaction, so a ledger write
// and its reconciliation commit or roll back together.
//
// The investment row is locked for the duration, serializing concurrent
// notifications for the same investment; the ledger total is re-read fresh
// inside the transaction and never accepted from a caller, so a payment
// appended while an older pass ran is picked up by its own pass afterwards.
func (e *Engine) ReconcileTx(tx *gorm.DB, investmentID uint) error {
	invRepo := investment.NewRepository(tx)

	// A missing investment is a referential integrity violation, not
	// interpretable data; let it fail.
	inv, err := invRepo.FindByIDForUpdate(investmentID)
	if err != nil {
		return err
	}

	totalPaid, err := payment.NewRepository(tx).TotalPaid(investmentID)
	if err != nil {
		return err
	}

	schedRepo := schedule.NewRepository(tx)
	items, err := schedRepo.ListByInvestmentForUpdate(investmentID)
	if err != nil {
		return err
	}

	// Zero items means generation has not run yet. Ledger writes must never
	// be blocked by a missing derived schedule, so the summary is still
	// updated and the item work happens on the pass after generation.
	changed := Classify(items, totalPaid, time.Now())
	if len(changed) > 0 {
		toSave := make([]schedule.PaymentSchedule, 0, len(changed))
		for _, i := range changed {
			toSave = append(toSave, items[i])
		}
		if err := schedRepo.SaveStatuses(toSave); err != nil {
			return err
		}
	}

	status, anomaly := DeriveStatus(inv.Status, totalPaid, inv.AgreedAmount)
	if anomaly {
		e.Log.WithFields(logrus.Fields{
			"investmentId": inv.ID,
			"amountPaid":   totalPaid.String(),
			"agreedAmount": inv.AgreedAmount.String(),
			"status":       inv.Status,
		}).Warn("paid total fell below agreed amount on a completed investment; flagging for manual review")
	}

	next := NextPaymentDate(items)
	if status == investment.StatusCompleted || status == investment.StatusEarning {
		next = nil
	}

	return invRepo.UpdateSummary(inv.ID, totalPaid, status, next)
}
