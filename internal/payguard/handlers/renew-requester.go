package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/provision"
	"go-payguard/internal/payguard/service"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type RenewalService interface {
	Renew(ctx context.Context, username, daemonID, uuid string, days int) (time.Time, error)
	Price(days int) int64
	DefaultDays() int
}

type RenewRequesterHandler struct {
	service RenewalService
	logger  *logging.ZapLogger
}

type RenewalInput struct {
	DaemonID string `json:"daemonId"`
	UUID     string `json:"uuid"`
	Days     int    `json:"days"`
}

func NewRenewRequesterHandler(service RenewalService, logger *logging.ZapLogger) *RenewRequesterHandler {
	return &RenewRequesterHandler{
		service: service,
		logger:  logger,
	}
}

func (h *RenewRequesterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	username, ok := usernameFromCtx(r.Context())
	if !ok {
		h.logger.ErrorCtx(r.Context(), "failed to recover username from token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	input, err := decodeJSON[RenewalInput](r.Body)
	if err != nil || input.DaemonID == "" || input.UUID == "" {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	days := input.Days
	if days <= 0 {
		days = h.service.DefaultDays()
	}

	newEndTime, err := h.service.Renew(r.Context(), username, input.DaemonID, input.UUID, days)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughPoints):
			h.logger.DebugCtx(r.Context(), "", zap.Error(err))
			w.WriteHeader(http.StatusPaymentRequired)
			return
		case errors.Is(err, provision.ErrInstanceNotFound):
			h.logger.DebugCtx(r.Context(), "instance not found", zap.String("uuid", input.UUID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "renewal failed", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	view := clientprotocol.RenewalView{
		NewEndTime:    newEndTime,
		AddedDays:     days,
		PointsCharged: h.service.Price(days),
	}
	if err := tryWriteResponseJSON(w, view); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
