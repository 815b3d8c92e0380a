package ingest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smsbridge/smsbridge/internal/httputil"
)

// Inserter is the persistence the HTTP handler needs.
type Inserter interface {
	Insert(ctx context.Context, sms *InboundSMS) (string, error)
}

// Handler serves the SMS ingestion endpoint.
type Handler struct {
	store  Inserter
	logger *slog.Logger
}

// NewHandler creates an ingest Handler.
func NewHandler(store Inserter, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes mounts the ingestion endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/receive", h.receive)
	return r
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var sms InboundSMS
	if !httputil.DecodeJSON(w, r, &sms) {
		return
	}
	if sms.SenderNumber == "" || sms.Message == "" || sms.ReceivedAt.IsZero() {
		httputil.WriteError(w, http.StatusBadRequest,
			"sender_number, sms_message and received_timestamp are required")
		return
	}

	id, err := h.store.Insert(r.Context(), &sms)
	if err != nil {
		h.logger.Error("storing inbound message", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "message could not be stored")
		return
	}

	h.logger.Info("message received", "uuid", id, "sender", sms.SenderNumber)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
