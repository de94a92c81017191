package lowstock

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	monitor *Monitor
}

func NewHandler(logger *slog.Logger, monitor *Monitor) *Handler {
	return &Handler{logger: logger, monitor: monitor}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/alerts/low-stock", h.Alerts)
	r.Post("/alerts/refresh", h.Refresh)
	r.Get("/notifications", h.Notifications)
}

func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.monitor.Alerts(r.Context(), shared.UserIDFromContext(r.Context()))
	shared.RespondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	fresh, err := h.monitor.Refresh(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if fresh == nil {
		fresh = []Notification{}
	}
	shared.RespondJSON(w, http.StatusOK, fresh)
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	feed, err := h.monitor.Notifications(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, feed)
}
