package reconcile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/schedule"
)

// Handler exposes the administrative correction surface: manual ledger
// entries, schedule overrides, and the reconcile refresh. None of these write
// amount_paid directly; they all funnel through the engine.
type Handler struct {
	DB     *gorm.DB
	Engine *Engine
}

func NewHandler(db *gorm.DB, engine *Engine) *Handler {
	return &Handler{DB: db, Engine: engine}
}

// POST /investments/{id}/reconcile (admin)
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Engine.Reconcile(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "investment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}
	inv, err := investment.NewRepository(h.DB).FindByID(uint(id))
	if err != nil {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(investment.ToSummaryDTO(inv))
}

type manualPaymentRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Reference         string          `json:"reference"`
	InstallmentNumber *int            `json:"installmentNumber"`
	Timestamp         string          `json:"timestamp"` // optional, RFC 3339, for historical back-entries
}

// POST /investments/{id}/payments (admin) — manual ledger entry, recorded and
// reconciled in one transaction.
func (h *Handler) RecordManualPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req manualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	inv, err := investment.NewRepository(h.DB).FindByID(uint(id))
	if err != nil {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}

	t := payment.Transaction{
		UserID:            inv.UserID,
		InvestmentID:      inv.ID,
		Amount:            req.Amount,
		Location:          inv.Pricing.Project.Location,
		InstallmentNumber: req.InstallmentNumber,
	}
	if req.Reference == "" {
		req.Reference = payment.NewManualReference()
	}
	t.PaymentReference = &req.Reference
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			http.Error(w, "invalid timestamp", http.StatusBadRequest)
			return
		}
		t.Timestamp = ts
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := payment.NewRepository(tx).Record(&t); err != nil {
			return err
		}
		return h.Engine.ReconcileTx(tx, inv.ID)
	})
	if errors.Is(err, payment.ErrDuplicatePayment) {
		http.Error(w, "payment reference already recorded", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "failed to record payment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

type overrideScheduleRequest struct {
	Status   string `json:"status"`
	DatePaid string `json:"datePaid"` // YYYY-MM-DD, used when status is "paid"
}

// PUT /schedules/{id}/status (admin) — direct override of one installment,
// followed by a reconcile so the investment summary is re-derived from the
// ledger rather than trusted from the edit.
func (h *Handler) OverrideScheduleStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req overrideScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case schedule.StatusUpcoming, schedule.StatusPending, schedule.StatusOverdue, schedule.StatusPaid:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	var item schedule.PaymentSchedule
	if err := h.DB.First(&item, id).Error; err != nil {
		http.Error(w, "schedule item not found", http.StatusNotFound)
		return
	}

	datePaid := time.Now()
	if req.DatePaid != "" {
		parsed, err := time.Parse("2006-01-02", req.DatePaid)
		if err != nil {
			http.Error(w, "invalid datePaid", http.StatusBadRequest)
			return
		}
		datePaid = parsed
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// Every reconciliation writer locks the investment row before any
		// schedule row; taking it here first keeps this path deadlock-free
		// against a concurrent webhook reconcile.
		if _, err := investment.NewRepository(tx).FindByIDForUpdate(item.InvestmentID); err != nil {
			return err
		}
		if err := schedule.NewRepository(tx).UpdateStatus(item.ID, req.Status, datePaid); err != nil {
			return err
		}
		return h.Engine.ReconcileTx(tx, item.InvestmentID)
	})
	if err != nil {
		http.Error(w, "failed to update schedule item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
