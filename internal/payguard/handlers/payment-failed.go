package handlers

import (
	"context"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderFailedMarker interface {
	MarkFailed(ctx context.Context, orderID string, amount decimal.Decimal, reason string) error
}

type PaymentFailedHandler struct {
	service OrderFailedMarker
	logger  *logging.ZapLogger
}

func NewPaymentFailedHandler(service OrderFailedMarker, logger *logging.ZapLogger) *PaymentFailedHandler {
	return &PaymentFailedHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentFailedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorView(w, "missing order_id", h.logger, r)
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		amount = decimal.Zero
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "unknown"
	}

	if err := h.service.MarkFailed(r.Context(), orderID, amount, reason); err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to mark order failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := struct {
		Status  string `json:"status"`
		OrderID string `json:"order_id"`
		Reason  string `json:"reason"`
	}{
		Status:  clientprotocol.StatusSuccess,
		OrderID: orderID,
		Reason:  reason,
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
