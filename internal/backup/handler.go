package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// maxImportBytes bounds uploaded snapshots; embedded product images can make
// them large but not unbounded.
const maxImportBytes = 32 << 20

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Get("/backups", h.List)
	r.Post("/backups", h.Create)
	r.Post("/backups/restore", h.Restore)
	r.Delete("/backups", h.Remove)
}

// Export streams the snapshot as a downloadable JSON file.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, userName := identity(r)
	snapshot, err := h.service.Export(r.Context(), userID, userName)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	filename := fmt.Sprintf("gestao-dados-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		h.logger.Warn("encode export", slog.Any("error", err))
	}
}

// Import accepts an uploaded snapshot. The declared MIME type must be
// application/json before the body is even parsed.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	userID, userName := identity(r)
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		shared.RespondError(w, fmt.Errorf("%w: expected application/json", shared.ErrValidation))
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	if err := h.service.Import(r.Context(), userID, userName, raw); err != nil {
		h.logger.Error("import snapshot", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := identity(r)
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, userName := identity(r)
	if err := h.service.CreateBackup(r.Context(), userID, userName); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, nil)
}

type restoreRequest struct {
	BackupDate time.Time `json:"backup_date"`
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, userName := identity(r)
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BackupDate.IsZero() {
		shared.RespondError(w, fmt.Errorf("%w: backup_date required", shared.ErrValidation))
		return
	}
	if err := h.service.Restore(r.Context(), userID, userName, req.BackupDate); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := identity(r)
	raw := r.URL.Query().Get("backup_date")
	backupDate, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		shared.RespondError(w, fmt.Errorf("%w: invalid backup_date", shared.ErrValidation))
		return
	}
	if err := h.service.Remove(r.Context(), userID, backupDate); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func identity(r *http.Request) (string, string) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return "", ""
	}
	return sess.User(), sess.Get("user_name")
}
