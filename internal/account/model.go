package account

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an authenticated platform identity.
type User struct {
	gorm.Model
	Email       string `gorm:"size:255;not null;unique" json:"email"`
	FirstName   string `gorm:"size:100;not null" json:"firstName"`
	LastName    string `gorm:"size:100;not null" json:"lastName"`
	PhoneNumber string `gorm:"size:20" json:"phoneNumber"`
	Password    string `gorm:"size:255;not null" json:"-"`
	IsAdmin     bool   `gorm:"not null;default:false" json:"-"`
	// Vetting flag for real-estate investments.
	IsApproved bool `gorm:"not null;default:false" json:"isApproved"`
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword compares a bcrypt hash against a plaintext password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Migrate creates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
