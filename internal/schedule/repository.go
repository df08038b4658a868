package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates data access for payment schedules.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Generate creates the full installment set for an investment. It is a no-op
// when items already exist, and the on-conflict clause on the
// (investment_id, installment_number) key makes the loser of a concurrent
// duplicate invocation a silent no-op rather than a failure.
func (r *Repository) Generate(investmentID uint, total decimal.Decimal, paymentMode string, durationDays int, start time.Time) error {
	var count int64
	if err := r.DB.Model(&PaymentSchedule{}).
		Where("investment_id = ?", investmentID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items, err := Build(total, paymentMode, durationDays, start)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].InvestmentID = investmentID
	}

	return r.DB.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&items).Error
}

// ListByInvestment returns every installment of an investment in order.
func (r *Repository) ListByInvestment(investmentID uint) ([]PaymentSchedule, error) {
	var items []PaymentSchedule
	err := r.DB.
		Where("investment_id = ?", investmentID).
		Order("installment_number ASC").
		Find(&items).Error
	return items, err
}

// ListByInvestmentForUpdate is ListByInvestment holding row locks, for use
// inside a reconciliation transaction.
func (r *Repository) ListByInvestmentForUpdate(investmentID uint) ([]PaymentSchedule, error) {
	var items []PaymentSchedule
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("investment_id = ?", investmentID).
		Order("installment_number ASC").
		Find(&items).Error
	return items, err
}

// FirstOpenByInvestment returns the lowest-numbered installment not yet paid,
// or gorm.ErrRecordNotFound when the schedule is fully settled.
func (r *Repository) FirstOpenByInvestment(investmentID uint) (*PaymentSchedule, error) {
	var item PaymentSchedule
	err := r.DB.
		Where("investment_id = ? AND status <> ?", investmentID, StatusPaid).
		Order("installment_number ASC").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatus persists a status change plus the matching date_paid
// adjustment, for administrative correction.
func (r *Repository) UpdateStatus(id uint, status string, datePaid time.Time) error {
	updates := map[string]interface{}{"status": status}
	if status == StatusPaid {
		updates["date_paid"] = &datePaid
	} else {
		updates["date_paid"] = nil
	}
	return r.DB.Model(&PaymentSchedule{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SaveStatuses writes back status/date_paid for the given items only.
func (r *Repository) SaveStatuses(items []PaymentSchedule) error {
	for i := range items {
		err := r.DB.Model(&PaymentSchedule{}).
			Where("id = ?", items[i].ID).
			Updates(map[string]interface{}{
				"status":    items[i].Status,
				"date_paid": items[i].DatePaid,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
