package project

import (
	"gorm.io/gorm"
)

// Repository encapsulates data access for investment projects.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new project.
func (r *Repository) Create(p *InvestmentProject) error {
	return r.DB.Create(p).Error
}

// FindByID fetches a single project by its ID.
func (r *Repository) FindByID(id uint) (*InvestmentProject, error) {
	var p InvestmentProject
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive returns all projects currently open for investment, optionally
// filtered by investment type.
func (r *Repository) ListActive(investmentType string) ([]InvestmentProject, error) {
	var projects []InvestmentProject
	q := r.DB.Where("active = ?", true)
	if investmentType != "" {
		q = q.Where("investment_type = ?", investmentType)
	}
	err := q.Order("name ASC").Find(&projects).Error
	return projects, err
}

// Update saves changes to an existing project.
func (r *Repository) Update(p *InvestmentProject) error {
	return r.DB.Save(p).Error
}

// Deactivate closes a project to new investments without touching existing ones.
func (r *Repository) Deactivate(id uint) error {
	return r.DB.Model(&InvestmentProject{}).
		Where("id = ?", id).
		Update("active", false).Error
}
