package taxonomy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/taxonomy", h.Show)
	r.Post("/taxonomy/categories", h.AddCategory)
	r.Post("/taxonomy/categories/rename", h.RenameCategory)
	r.Post("/taxonomy/subcategories", h.AddSubcategory)
	r.Post("/taxonomy/subcategories/rename", h.RenameSubcategory)
}

type addCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type renameCategoryRequest struct {
	OldName string `json:"old_name" validate:"required,max=100"`
	NewName string `json:"new_name" validate:"required,max=100"`
}

type addSubcategoryRequest struct {
	Category string `json:"category" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
}

type renameSubcategoryRequest struct {
	Category string `json:"category" validate:"required,max=100"`
	OldName  string `json:"old_name" validate:"required,max=100"`
	NewName  string `json:"new_name" validate:"required,max=100"`
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	tax, err := h.service.Get(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, tax)
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.AddCategory(r.Context(), shared.UserIDFromContext(r.Context()), req.Name); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, nil)
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.RenameCategory(r.Context(), shared.UserIDFromContext(r.Context()), req.OldName, req.NewName); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	var req addSubcategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.AddSubcategory(r.Context(), shared.UserIDFromContext(r.Context()), req.Category, req.Name); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, nil)
}

func (h *Handler) RenameSubcategory(w http.ResponseWriter, r *http.Request) {
	var req renameSubcategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.RenameSubcategory(r.Context(), shared.UserIDFromContext(r.Context()), req.Category, req.OldName, req.NewName); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return false
	}
	if err := h.validate.Struct(dest); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return false
	}
	return true
}
