package handlers

import (
	"context"
	"net/http"

	"go-payguard/internal/common/clientprotocol"
	"go-payguard/internal/payguard/data"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type OrdersListingService interface {
	GetAllOrders(ctx context.Context) ([]data.Order, error)
}

type OrdersListingHandler struct {
	service OrdersListingService
	logger  *logging.ZapLogger
}

func NewOrdersListingHandler(service OrdersListingService, logger *logging.ZapLogger) *OrdersListingHandler {
	return &OrdersListingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrdersListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAllOrders(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "Error getting orders", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	views := make([]clientprotocol.OrderView, len(orders))
	for i, order := range orders {
		amount, _ := order.Amount.Float64()
		views[i] = clientprotocol.OrderView{
			OrderID:   order.OrderID,
			Amount:    amount,
			Status:    string(order.Status),
			Reason:    order.Reason,
			UpdatedAt: order.UpdatedAt,
		}
	}

	response := struct {
		Status string                     `json:"status"`
		Orders []clientprotocol.OrderView `json:"orders"`
	}{
		Status: clientprotocol.StatusSuccess,
		Orders: views,
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
