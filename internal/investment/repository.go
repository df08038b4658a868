package investment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terravest/investment-api/internal/schedule"
)

// Repository encapsulates data access for investments.
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

// CreateWithSchedule persists a new investment and generates its payment
// schedule in the same transaction, so the investment never exists without
// its installments.
func (r *Repository) CreateWithSchedule(inv *Investment, paymentMode string, durationDays int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Pricing", "Schedules").Create(inv).Error; err != nil {
			return err
		}
		return schedule.NewRepository(tx).
			Generate(inv.ID, inv.AgreedAmount, paymentMode, durationDays, inv.StartDate)
	})
}

// FindByID fetches an investment with pricing and schedule preloaded.
func (r *Repository) FindByID(id uint) (*Investment, error) {
	var inv Investment
	err := r.DB.
		Preload("Pricing.Project").
		Preload("Pricing.Plan").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByIDForUpdate loads the bare investment row under an exclusive lock,
// for use inside a reconciliation transaction.
func (r *Repository) FindByIDForUpdate(id uint) (*Investment, error) {
	var inv Investment
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByUser returns a user's investments, newest first, optionally filtered
// by project category.
func (r *Repository) ListByUser(userID uint, category string) ([]Investment, error) {
	q := r.DB.
		Preload("Pricing.Project").
		Preload("Pricing.Plan").
		Where("investments.user_id = ?", userID)
	if category != "" {
		q = q.
			Select("investments.*").
			Joins("JOIN project_pricings ON project_pricings.id = investments.pricing_id").
			Joins("JOIN investment_projects ON investment_projects.id = project_pricings.project_id").
			Where("investment_projects.investment_type = ?", category)
	}
	var list []Investment
	err := q.Order("investments.created_at DESC").Find(&list).Error
	return list, err
}

// FirstOpenByUserEmail returns the oldest investment still collecting
// payments for the user with the given e-mail address.
func (r *Repository) FirstOpenByUserEmail(email string) (*Investment, error) {
	var inv Investment
	err := r.DB.
		Select("investments.*").
		Joins("JOIN users ON users.id = investments.user_id").
		Where("users.email = ? AND investments.status IN ?", email, []string{StatusPending, StatusPaying}).
		Order("investments.created_at ASC").
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateSummary writes back only the reconciliation-owned fields.
func (r *Repository) UpdateSummary(id uint, amountPaid decimal.Decimal, status string, nextPaymentDate *time.Time) error {
	return r.DB.Model(&Investment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_paid":       amountPaid,
			"status":            status,
			"next_payment_date": nextPaymentDate,
		}).Error
}
