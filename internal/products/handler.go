package products

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// Handler exposes product endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Show)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	shared.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid product id", shared.ErrValidation))
		return
	}
	product, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	product, err := h.service.Add(r.Context(), userID, req)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid product id", shared.ErrValidation))
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	product, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid product id", shared.ErrValidation))
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
