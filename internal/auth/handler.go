package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validate       *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		validate:       validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Error("register", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		shared.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	sess.SetUser(user.ID)
	sess.Set("user_name", user.Name)
	token, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	h.logger.Info("login", slog.String("user", user.ID))
	shared.RespondJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email, CSRFToken: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessionManager.Destroy(sess)
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		shared.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
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
