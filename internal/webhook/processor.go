package webhook

import (
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/notification"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/reconcile"
)

// Processor is the production Applier: the ledger write and its
// reconciliation commit or roll back together.
type Processor struct {
	DB     *gorm.DB
	Engine *reconcile.Engine
}

func NewProcessor(db *gorm.DB, engine *reconcile.Engine) *Processor {
	return &Processor{DB: db, Engine: engine}
}

func (p *Processor) Apply(t *payment.Transaction) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		if err := payment.NewRepository(tx).Record(t); err != nil {
			return err
		}
		return p.Engine.ReconcileTx(tx, t.InvestmentID)
	})
}

// NotificationNotifier adapts the notification repository to the Notifier
// interface.
type NotificationNotifier struct {
	Repository *notification.Repository
}

func (n *NotificationNotifier) Notify(userID uint, title, message, kind string) error {
	return n.Repository.Create(&notification.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	})
}
