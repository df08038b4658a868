package pricing

import (
	"errors"

	"gorm.io/gorm"
)

// Repository encapsulates data access for project pricing.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new pricing option. The unique (project, plan) index is the
// source of truth for duplicates; a violation maps to ErrDuplicateOffer.
func (r *Repository) Create(p *ProjectPricing) error {
	err := r.DB.Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOffer
	}
	return err
}

// FindByID fetches a pricing option with its project and plan preloaded.
func (r *Repository) FindByID(id uint) (*ProjectPricing, error) {
	var p ProjectPricing
	err := r.DB.
		Preload("Project").
		Preload("Plan").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByProject returns every pricing option for a project.
func (r *Repository) ListByProject(projectID uint) ([]ProjectPricing, error) {
	var list []ProjectPricing
	err := r.DB.
		Where("project_id = ?", projectID).
		Preload("Plan").
		Order("total_price ASC").
		Find(&list).Error
	return list, err
}
