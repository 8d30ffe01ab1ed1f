package handlers

import (
	"net/http"

	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionCancelHandler struct {
	registry *verification.Registry
	logger   *logging.ZapLogger
}

func NewSessionCancelHandler(registry *verification.Registry, logger *logging.ZapLogger) *SessionCancelHandler {
	return &SessionCancelHandler{
		registry: registry,
		logger:   logger,
	}
}

// Cancellation carries no terminal notification and repeating it is harmless,
// so a missing session still answers 200.
func (h *SessionCancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	session, ok := h.registry.Get(orderID)
	if ok {
		session.Cancel()
		h.registry.Remove(orderID)
		h.logger.DebugCtx(r.Context(), "session cancelled", zap.String("orderID", orderID))
	}
	w.WriteHeader(http.StatusOK)
}
