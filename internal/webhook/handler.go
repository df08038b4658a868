package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/schedule"
)

// Resolver finds the investment a gateway event belongs to.
type Resolver interface {
	FindByID(id uint) (*investment.Investment, error)
	FirstOpenByUserEmail(email string) (*investment.Investment, error)
}

// ScheduleFinder locates the next open installment of an investment.
type ScheduleFinder interface {
	FirstOpenByInvestment(investmentID uint) (*schedule.PaymentSchedule, error)
}

// Applier records a confirmed payment and reconciles the investment in one
// unit of work.
type Applier interface {
	Apply(t *payment.Transaction) error
}

// Notifier fans a message out to the payer. Best-effort; failures are logged,
// never returned to the gateway.
type Notifier interface {
	Notify(userID uint, title, message, kind string) error
}

// Handler receives Paystack-style payment events. Contract with the gateway:
// 200 OK unless the request is malformed or unauthenticated, so an event we
// cannot resolve is acknowledged and dropped instead of triggering a retry
// storm.
type Handler struct {
	Secret      string
	Investments Resolver
	Schedules   ScheduleFinder
	Payments    Applier
	Notifier    Notifier
	Log         *logrus.Logger
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		// Paystack sends amounts in kobo.
		Amount   int64 `json:"amount"`
		Metadata struct {
			InvestmentID json.Number `json:"investment_id"`
		} `json:"metadata"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Receive handles POST /webhooks/paystack.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(h.Secret, body, r.Header.Get("x-paystack-signature")) {
		h.Log.Warn("webhook rejected: bad or missing signature")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	if event.Event != "charge.success" {
		w.WriteHeader(http.StatusOK)
		return
	}

	amount := decimal.NewFromInt(event.Data.Amount).Div(decimal.NewFromInt(100))

	inv, err := h.resolveInvestment(&event)
	if err != nil {
		// Accept-and-drop: a payment we cannot attach is logged for manual
		// review, never bounced back to the gateway.
		h.Log.WithFields(logrus.Fields{
			"reference": event.Data.Reference,
			"email":     event.Data.Customer.Email,
		}).Warn("webhook dropped: no resolvable investment")
		w.WriteHeader(http.StatusOK)
		return
	}

	next, err := h.Schedules.FirstOpenByInvestment(inv.ID)
	if err != nil {
		h.Log.WithFields(logrus.Fields{
			"reference":    event.Data.Reference,
			"investmentId": inv.ID,
		}).Warn("webhook dropped: no open schedule item")
		w.WriteHeader(http.StatusOK)
		return
	}

	reference := event.Data.Reference
	t := payment.Transaction{
		UserID:            inv.UserID,
		InvestmentID:      inv.ID,
		Amount:            amount,
		Location:          inv.Pricing.Project.Location,
		InstallmentNumber: &next.InstallmentNumber,
		PaymentReference:  &reference,
	}

	if err := h.Payments.Apply(&t); err != nil {
		if errors.Is(err, payment.ErrDuplicatePayment) {
			// Redelivery of an event we already applied.
			w.WriteHeader(http.StatusOK)
			return
		}
		h.Log.WithError(err).WithField("reference", reference).Error("failed to apply webhook payment")
		http.Error(w, "failed to apply payment", http.StatusInternalServerError)
		return
	}

	if h.Notifier != nil {
		msg := fmt.Sprintf("Your payment of %s towards %s was received.",
			amount.StringFixed(2), inv.Pricing.Project.Name)
		if err := h.Notifier.Notify(inv.UserID, "Payment received", msg, "success"); err != nil {
			h.Log.WithError(err).Warn("failed to create payment notification")
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) resolveInvestment(event *paystackEvent) (*investment.Investment, error) {
	if id, err := event.Data.Metadata.InvestmentID.Int64(); err == nil && id > 0 {
		return h.Investments.FindByID(uint(id))
	}
	if event.Data.Customer.Email == "" {
		return nil, errors.New("event carries neither investment id nor customer email")
	}
	inv, err := h.Investments.FirstOpenByUserEmail(event.Data.Customer.Email)
	if err != nil {
		return nil, err
	}
	// The open-investment lookup skips the pricing preload; fetch the full row.
	return h.Investments.FindByID(inv.ID)
}
