package plan

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(db)}
}

// POST /plans (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p InvestmentPlan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, err := CycleLength(p.PaymentMode); err != nil {
		http.Error(w, "invalid payment mode", http.StatusBadRequest)
		return
	}
	if p.DurationDays <= 0 {
		http.Error(w, "durationDays must be positive", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Create(&p); err != nil {
		http.Error(w, "failed to save plan", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// GET /plans
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Repository.ListAll()
	if err != nil {
		http.Error(w, "failed to list plans", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(plans)
}

// GET /plans/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	p, err := h.Repository.FindByID(uint(id))
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// DELETE /plans/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.DeleteByID(uint(id)); err != nil {
		http.Error(w, "failed to delete plan", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
