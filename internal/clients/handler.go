package clients

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

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clients", h.List)
	r.Post("/clients", h.Create)
	r.Get("/clients/{id}", h.Show)
	r.Put("/clients/{id}", h.Update)
	r.Delete("/clients/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Client{}
	}
	shared.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid client id", shared.ErrValidation))
		return
	}
	client, err := h.service.Get(r.Context(), shared.UserIDFromContext(r.Context()), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	client, err := h.service.Add(r.Context(), shared.UserIDFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("create client", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, client)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid client id", shared.ErrValidation))
		return
	}
	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	client, err := h.service.Update(r.Context(), shared.UserIDFromContext(r.Context()), id, req)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid client id", shared.ErrValidation))
		return
	}
	if err := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), id); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
