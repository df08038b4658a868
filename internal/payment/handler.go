package payment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/auth"
)

// Handler exposes the read-only ledger views. All writes go through the
// webhook receiver or the administrative correction endpoints.
type Handler struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(db)}
}

// GET /payments
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(uint)
	list, err := h.Repository.ListByUser(userID)
	if err != nil {
		http.Error(w, "failed to list payments", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(list)
}

// GET /investments/{id}/payments
func (h *Handler) ListByInvestment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(uint)
	isAdmin, _ := r.Context().Value(auth.IsAdminKey).(bool)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	list, err := h.Repository.ListByInvestment(uint(id))
	if err != nil {
		http.Error(w, "failed to list payments", http.StatusInternalServerError)
		return
	}
	if !isAdmin {
		for i := range list {
			if list[i].UserID != userID {
				http.Error(w, "investment not found", http.StatusNotFound)
				return
			}
		}
	}
	json.NewEncoder(w).Encode(list)
}
