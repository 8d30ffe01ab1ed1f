package handlers

import (
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionStatusHandler struct {
	registry *verification.Registry
	logger   *logging.ZapLogger
}

func NewSessionStatusHandler(registry *verification.Registry, logger *logging.ZapLogger) *SessionStatusHandler {
	return &SessionStatusHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *SessionStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	session, ok := h.registry.Get(orderID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	view := clientprotocol.SessionView{
		OrderID:          orderID,
		Method:           string(session.Datum().Method),
		State:            string(session.State()),
		Display:          session.Datum().DisplayValue(),
		RemainingSeconds: session.Remaining(),
	}
	if err := tryWriteResponseJSON(w, view); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
