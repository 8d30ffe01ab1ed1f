package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-payguard/internal/payguard/data"
	"go-payguard/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderRepository interface {
	UpsertOrder(ctx context.Context, order data.Order) error
	GetOrder(ctx context.Context, orderID string) (data.Order, error)
	GetAllOrders(ctx context.Context) ([]data.Order, error)
}

type PointsRepository interface {
	GetUserPoints(ctx context.Context, username string) (int64, error)
	SetUserPoints(ctx context.Context, username string, points int64) error
	InsertDeduction(ctx context.Context, deduction data.Deduction) error
	GetUserDeductions(ctx context.Context, username string) ([]data.Deduction, error)
}

// Orders is the order store the outcome notifier reports into. Marking an
// order paid also accrues points to the user named by the order-id prefix.
type Orders struct {
	transactionManager TransactionManager
	orderRepository    OrderRepository
	pointsRepository   PointsRepository
	pointsRatio        decimal.Decimal
	logger             *logging.ZapLogger
}

func NewOrders(
	transactionManager TransactionManager,
	orderRepository OrderRepository,
	pointsRepository PointsRepository,
	pointsRatio decimal.Decimal,
	logger *logging.ZapLogger,
) *Orders {
	return &Orders{
		transactionManager: transactionManager,
		orderRepository:    orderRepository,
		pointsRepository:   pointsRepository,
		pointsRatio:        pointsRatio,
		logger:             logger,
	}
}

func (o *Orders) MarkPaid(ctx context.Context, orderID string, amount decimal.Decimal) error {
	return o.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		err := o.orderRepository.UpsertOrder(ctx, data.Order{
			OrderID:   orderID,
			Amount:    amount,
			Status:    data.PaidStatus,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}

		username := usernameFromOrderID(orderID)
		if username == "" {
			o.logger.DebugCtx(ctx, "order id carries no username prefix, skipping accrual",
				zap.String("orderID", orderID))
			return nil
		}

		earned := amount.Mul(o.pointsRatio).Floor().IntPart()
		currentPoints, err := o.pointsRepository.GetUserPoints(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to get current points: %w", err)
		}
		err = o.pointsRepository.SetUserPoints(ctx, username, currentPoints+earned)
		if err != nil {
			return fmt.Errorf("failed to accrue points: %w", err)
		}

		o.logger.InfoCtx(
			ctx,
			"order paid, points accrued",
			zap.String("orderID", orderID),
			zap.String("username", username),
			zap.Int64("earned", earned),
		)
		return nil
	})
}

func (o *Orders) MarkFailed(ctx context.Context, orderID string, amount decimal.Decimal, reason string) error {
	err := o.orderRepository.UpsertOrder(ctx, data.Order{
		OrderID:   orderID,
		Amount:    amount,
		Status:    data.FailedStatus,
		Reason:    reason,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to mark order failed: %w", err)
	}
	return nil
}

func (o *Orders) GetOrder(ctx context.Context, orderID string) (data.Order, error) {
	return o.orderRepository.GetOrder(ctx, orderID) //nolint:wrapcheck // unnecessary
}

func (o *Orders) GetAllOrders(ctx context.Context) ([]data.Order, error) {
	orders, err := o.orderRepository.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// Order ids look like "u1_0042": the part before the first underscore names
// the paying user.
func usernameFromOrderID(orderID string) string {
	username, rest, found := strings.Cut(orderID, "_")
	if !found || username == "" || rest == "" {
		return ""
	}
	return username
}
