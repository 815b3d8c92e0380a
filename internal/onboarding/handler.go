package onboarding

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smsbridge/smsbridge/internal/httputil"
)

// Registrar is the service surface the HTTP handler needs.
type Registrar interface {
	Register(ctx context.Context, mobile string) (*Registration, error)
	Status(ctx context.Context, mobile string) (*Status, error)
	Deactivate(ctx context.Context, mobile string) error
}

// Handler serves the onboarding endpoints.
type Handler struct {
	svc    Registrar
	logger *slog.Logger
}

// NewHandler creates an onboarding Handler.
func NewHandler(svc Registrar, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the onboarding endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Get("/status/{mobile}", h.status)
	r.Delete("/{mobile}", h.deactivate)
	return r
}

type registerRequest struct {
	Mobile string `json:"mobile_number"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Mobile == "" {
		httputil.WriteError(w, http.StatusBadRequest, "mobile_number is required")
		return
	}

	reg, err := h.svc.Register(r.Context(), req.Mobile)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMobile):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyRegistered):
			httputil.WriteError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("registering mobile", "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context(), chi.URLParam(r, "mobile"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("reading onboarding status", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "status lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Deactivate(r.Context(), chi.URLParam(r, "mobile"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("deactivating mobile", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "deactivation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
