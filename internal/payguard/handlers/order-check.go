package handlers

import (
	"context"
	"errors"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/data"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type OrderGetter interface {
	GetOrder(ctx context.Context, orderID string) (data.Order, error)
}

type OrderCheckHandler struct {
	service OrderGetter
	logger  *logging.ZapLogger
}

func NewOrderCheckHandler(service OrderGetter, logger *logging.ZapLogger) *OrderCheckHandler {
	return &OrderCheckHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeErrorView(w, "missing order_id", h.logger, r)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrOrderNotFound):
			response := clientprotocol.ErrorView{
				Status:  clientprotocol.StatusNotFound,
				Message: "order does not exist or was never paid",
			}
			if err := tryWriteResponseJSON(w, response); err != nil {
				h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		default:
			h.logger.ErrorCtx(r.Context(), "failed to get order", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	amount, _ := order.Amount.Float64()
	response := struct {
		Status string                   `json:"status"`
		Order  clientprotocol.OrderView `json:"order"`
	}{
		Status: clientprotocol.StatusSuccess,
		Order: clientprotocol.OrderView{
			OrderID:   order.OrderID,
			Amount:    amount,
			Status:    string(order.Status),
			Reason:    order.Reason,
			UpdatedAt: order.UpdatedAt,
		},
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
