package handlers

import (
	"context"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/service"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type PointsGettingService interface {
	GetUserPointsInfo(ctx context.Context, username string) (service.PointsInfo, error)
}

type PointsGettingHandler struct {
	service PointsGettingService
	logger  *logging.ZapLogger
}

func NewPointsGettingHandler(service PointsGettingService, logger *logging.ZapLogger) *PointsGettingHandler {
	return &PointsGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PointsGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// admins may ask about any user; without the query param the caller
	// gets their own balance
	username := r.URL.Query().Get("username")
	if username == "" {
		var ok bool
		username, ok = usernameFromCtx(r.Context())
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			writeErrorView(w, "missing username", h.logger, r)
			return
		}
	}

	info, err := h.service.GetUserPointsInfo(r.Context(), username)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "Failed to get user points info", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	deductions := make([]clientprotocol.DeductionView, len(info.Deductions))
	for i, deduction := range info.Deductions {
		deductions[i] = clientprotocol.DeductionView{
			Points:      deduction.Points,
			Reason:      deduction.Reason,
			ProcessTime: deduction.ProcessTime,
		}
	}

	view := clientprotocol.PointsView{
		Username:   username,
		Balance:    info.Balance,
		Deductions: deductions,
	}
	if err := tryWriteResponseJSON(w, view); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
