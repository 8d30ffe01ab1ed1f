package handlers

import (
	"context"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderPaidMarker interface {
	MarkPaid(ctx context.Context, orderID string, amount decimal.Decimal) error
}

// PaymentSuccessHandler is the order-store endpoint the outcome notifier
// reports verified payments into.
type PaymentSuccessHandler struct {
	service OrderPaidMarker
	logger  *logging.ZapLogger
}

func NewPaymentSuccessHandler(service OrderPaidMarker, logger *logging.ZapLogger) *PaymentSuccessHandler {
	return &PaymentSuccessHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentSuccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorView(w, "missing order_id", h.logger, r)
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		h.logger.DebugCtx(r.Context(), "invalid amount", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		writeErrorView(w, "invalid amount", h.logger, r)
		return
	}

	if err := h.service.MarkPaid(r.Context(), orderID, amount); err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to mark order paid", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := struct {
		Status  string `json:"status"`
		OrderID string `json:"order_id"`
	}{
		Status:  clientprotocol.StatusSuccess,
		OrderID: orderID,
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
