package handlers

import (
	"context"
	"errors"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type SessionStarter interface {
	Begin(ctx context.Context, order verification.Order, method verification.Method) (*verification.Session, error)
}

type SessionStartHandler struct {
	verifier SessionStarter
	registry *verification.Registry
	logger   *logging.ZapLogger
}

type SessionStartInput struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

func NewSessionStartHandler(
	verifier SessionStarter,
	registry *verification.Registry,
	logger *logging.ZapLogger,
) *SessionStartHandler {
	return &SessionStartHandler{
		verifier: verifier,
		registry: registry,
		logger:   logger,
	}
}

func (h *SessionStartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[SessionStartInput](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	method := verification.Method(input.Method)
	if input.Method == "" {
		method = verification.MethodDecimal
	}

	// the session must outlive this request
	session, err := h.verifier.Begin(
		context.Background(),
		verification.Order{ID: input.OrderID, Amount: input.Amount},
		method,
	)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrInvalidOrder), errors.Is(err, verification.ErrUnknownMethod):
			h.logger.DebugCtx(r.Context(), "rejected session start", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			writeErrorView(w, err.Error(), h.logger, r)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "failed to start session", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	if !h.registry.Add(input.OrderID, session) {
		session.Cancel()
		h.logger.DebugCtx(r.Context(), "order already has a live session",
			zap.String("orderID", input.OrderID))
		w.WriteHeader(http.StatusConflict)
		return
	}

	view := clientprotocol.SessionView{
		OrderID:          input.OrderID,
		Method:           string(method),
		State:            string(session.State()),
		Display:          session.Datum().DisplayValue(),
		RemainingSeconds: session.Remaining(),
	}
	if err := tryWriteResponseJSON(w, view); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeErrorView(w http.ResponseWriter, message string, logger *logging.ZapLogger, r *http.Request) {
	view := clientprotocol.ErrorView{
		Status:  clientprotocol.StatusError,
		Message: message,
	}
	if err := tryWriteResponseJSON(w, view); err != nil {
		logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
	}
}
