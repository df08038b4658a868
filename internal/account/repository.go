package account

import (
	"gorm.io/gorm"
)

// Repository encapsulates data access for users.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new user.
func (r *Repository) Create(u *User) error {
	return r.DB.Create(u).Error
}

// FindByID fetches a single user by ID.
func (r *Repository) FindByID(id uint) (*User, error) {
	var u User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a single user by e-mail address.
func (r *Repository) FindByEmail(email string) (*User, error) {
	var u User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Update saves changes to an existing user.
func (r *Repository) Update(u *User) error {
	return r.DB.Save(u).Error
}
