package pricing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/plan"
)

type Handler struct {
	DB         *gorm.DB
	Repository *Repository
	Plans      *plan.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(db), Plans: plan.NewRepository(db)}
}

type priceOfferRequest struct {
	PlanID         uint            `json:"planId"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	MinimumDeposit decimal.Decimal `json:"minimumDeposit"`
}

// POST /projects/{id}/pricing (admin)
func (h *Handler) PriceOffer(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req priceOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.TotalPrice.LessThanOrEqual(decimal.Zero) {
		http.Error(w, "totalPrice must be positive", http.StatusBadRequest)
		return
	}

	pl, err := h.Plans.FindByID(req.PlanID)
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}

	deposit := req.MinimumDeposit
	if deposit.IsZero() {
		deposit, err = ComputeMinimumDeposit(req.TotalPrice, pl.PaymentMode, pl.DurationDays)
		if err != nil {
			http.Error(w, "invalid payment cadence", http.StatusBadRequest)
			return
		}
	}

	p := ProjectPricing{
		ProjectID:      uint(projectID),
		PlanID:         req.PlanID,
		TotalPrice:     req.TotalPrice,
		MinimumDeposit: deposit,
	}
	if err := h.Repository.Create(&p); err != nil {
		if errors.Is(err, ErrDuplicateOffer) {
			http.Error(w, "pricing already exists for this project and plan", http.StatusConflict)
			return
		}
		http.Error(w, "failed to save pricing", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// GET /projects/{id}/pricing
func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.Atoi(mux.Vars(r)["id"])
	list, err := h.Repository.ListByProject(uint(projectID))
	if err != nil {
		http.Error(w, "failed to list pricing", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(list)
}
