package investment

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/auth"
	"github.com/terravest/investment-api/internal/pricing"
)

type Handler struct {
	DB         *gorm.DB
	Repository *Repository
	Pricing    *pricing.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(db),
		Pricing:    pricing.NewRepository(db),
	}
}

type createInvestmentRequest struct {
	PricingID uint   `json:"pricingId"`
	StartDate string `json:"startDate"` // optional, YYYY-MM-DD, defaults to today
}

// POST /investments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(uint)

	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	offer, err := h.Pricing.FindByID(req.PricingID)
	if err != nil {
		http.Error(w, "pricing option not found", http.StatusNotFound)
		return
	}
	if !offer.Project.Active {
		http.Error(w, ErrClosedProject.Error(), http.StatusConflict)
		return
	}

	start := startOfDay(time.Now())
	if req.StartDate != "" {
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "invalid startDate", http.StatusBadRequest)
			return
		}
	}

	// Financial terms are frozen here; later edits to the offer never reach
	// an existing investment.
	inv := Investment{
		UserID:            userID,
		PricingID:         offer.ID,
		AgreedAmount:      offer.TotalPrice,
		InstallmentAmount: offer.MinimumDeposit,
		Status:            StatusPending,
		StartDate:         start,
	}
	if err := h.Repository.CreateWithSchedule(&inv, offer.Plan.PaymentMode, offer.Plan.DurationDays); err != nil {
		http.Error(w, "failed to create investment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Investment initiated successfully",
		"investmentId": inv.ID,
		"status":       inv.Status,
	})
}

// PUT /investments/{id}/earning (admin) — moves a fully paid investment into
// its return-earning phase once the project's ROI start date passes.
func (h *Handler) MarkEarning(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	inv, err := h.Repository.FindByID(uint(id))
	if err != nil {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}
	if inv.Status != StatusCompleted {
		http.Error(w, "only a completed investment can start earning", http.StatusConflict)
		return
	}
	if err := h.DB.Model(&Investment{}).Where("id = ?", inv.ID).
		Update("status", StatusEarning).Error; err != nil {
		http.Error(w, "failed to update investment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GET /investments?category=agriculture
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(uint)
	category := strings.ToLower(r.URL.Query().Get("category"))

	list, err := h.Repository.ListByUser(userID, category)
	if err != nil {
		http.Error(w, "failed to list investments", http.StatusInternalServerError)
		return
	}

	dtos := make([]SummaryDTO, 0, len(list))
	for idx := range list {
		dtos = append(dtos, ToSummaryDTO(&list[idx]))
	}
	json.NewEncoder(w).Encode(dtos)
}

// GET /investments/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(uint)
	isAdmin, _ := r.Context().Value(auth.IsAdminKey).(bool)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	inv, err := h.Repository.FindByID(uint(id))
	if err != nil {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}
	// A user may only view their own investment.
	if inv.UserID != userID && !isAdmin {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(inv)
}

// startOfDay returns t at midnight on the same calendar day, in t's own
// location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
