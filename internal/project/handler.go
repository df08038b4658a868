package project

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

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

// POST /projects (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p InvestmentProject
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	switch p.InvestmentType {
	case TypeAgriculture, TypeRealEstate:
	default:
		http.Error(w, "invalid investment type", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Create(&p); err != nil {
		http.Error(w, "failed to save project", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// GET /projects?category=agriculture
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(r.URL.Query().Get("category"))
	projects, err := h.Repository.ListActive(category)
	if err != nil {
		http.Error(w, "failed to list projects", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(projects)
}

// GET /projects/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	p, err := h.Repository.FindByID(uint(id))
	if err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// PUT /projects/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var p InvestmentProject
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p.ID = uint(id)
	if err := h.Repository.Update(&p); err != nil {
		http.Error(w, "failed to update project", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// DELETE /projects/{id} (admin) — closes the project instead of deleting,
// since investments may still reference it.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.Deactivate(uint(id)); err != nil {
		http.Error(w, "failed to close project", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
