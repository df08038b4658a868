package notification

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeAlert   = "alert"
)

// Notification is an in-app message for a user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:20;not null;default:'info'" json:"type"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Migrate creates the notifications table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}
