package plan

import (
	"gorm.io/gorm"
)

// Repository encapsulates data access for investment plans.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new plan.
func (r *Repository) Create(p *InvestmentPlan) error {
	return r.DB.Create(p).Error
}

// FindByID fetches a single plan by its ID.
func (r *Repository) FindByID(id uint) (*InvestmentPlan, error) {
	var p InvestmentPlan
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every plan ordered by duration.
func (r *Repository) ListAll() ([]InvestmentPlan, error) {
	var plans []InvestmentPlan
	err := r.DB.Order("duration_days ASC").Find(&plans).Error
	return plans, err
}

// Update saves changes to an existing plan.
func (r *Repository) Update(p *InvestmentPlan) error {
	return r.DB.Save(p).Error
}

// DeleteByID removes a plan; returns gorm.ErrRecordNotFound if nothing was deleted.
func (r *Repository) DeleteByID(id uint) error {
	res := r.DB.Delete(&InvestmentPlan{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
