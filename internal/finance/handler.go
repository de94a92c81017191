package finance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/finance/summary", h.Summary)
}

// Summary responds with the financial summary, optionally bounded by
// start_date/end_date query parameters (inclusive, YYYY-MM-DD). Unparsable
// dates are dropped so the endpoint always yields a summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start := parseDate(r.URL.Query().Get("start_date"), false)
	end := parseDate(r.URL.Query().Get("end_date"), true)

	summary, err := h.service.Summary(r.Context(), shared.UserIDFromContext(r.Context()), start, end)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, summary)
}

func parseDate(raw string, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
