package handlers

import (
	"context"
	"errors"
	"net/http"

	"go-payguard/internal/payguard/service"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type PointsAdjustService interface {
	AddPoints(ctx context.Context, username string, points int64) error
	DeductPoints(ctx context.Context, username string, points int64, reason string) error
}

type PointsAdjustInput struct {
	Username string `json:"username"`
	Points   int64  `json:"points"`
	Reason   string `json:"reason,omitempty"`
}

type PointsAddHandler struct {
	service PointsAdjustService
	logger  *logging.ZapLogger
}

func NewPointsAddHandler(service PointsAdjustService, logger *logging.ZapLogger) *PointsAddHandler {
	return &PointsAddHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PointsAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[PointsAdjustInput](r.Body)
	if err != nil || input.Username == "" || input.Points <= 0 {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.AddPoints(r.Context(), input.Username, input.Points); err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to add points", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type PointsDeductHandler struct {
	service PointsAdjustService
	logger  *logging.ZapLogger
}

func NewPointsDeductHandler(service PointsAdjustService, logger *logging.ZapLogger) *PointsDeductHandler {
	return &PointsDeductHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PointsDeductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[PointsAdjustInput](r.Body)
	if err != nil || input.Username == "" || input.Points <= 0 {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.service.DeductPoints(r.Context(), input.Username, input.Points, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughPoints):
			h.logger.DebugCtx(r.Context(), "", zap.Error(err))
			w.WriteHeader(http.StatusPaymentRequired)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "failed to deduct points", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
