package notification

import (
	"gorm.io/gorm"
)

// Repository encapsulates data access for notifications.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new notification.
func (r *Repository) Create(n *Notification) error {
	return r.DB.Create(n).Error
}

// ListByUser returns a user's notifications, newest first.
func (r *Repository) ListByUser(userID uint) ([]Notification, error) {
	var list []Notification
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkRead flags a notification as read; scoped to the owner.
func (r *Repository) MarkRead(id, userID uint) error {
	res := r.DB.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
