package service

import (
	"context"
	"fmt"
	"time"

	"go-payguard/internal/payguard/data"
	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type PointsInfo struct {
	Balance    int64
	Deductions []data.Deduction
}

// Wallet maintains the per-user points balance.
type Wallet struct {
	transactionManager TransactionManager
	repository         PointsRepository
	logger             *logging.ZapLogger
}

func NewWallet(
	transactionManager TransactionManager,
	repository PointsRepository,
	logger *logging.ZapLogger,
) *Wallet {
	return &Wallet{
		transactionManager: transactionManager,
		repository:         repository,
		logger:             logger,
	}
}

func (w *Wallet) GetUserPointsInfo(ctx context.Context, username string) (PointsInfo, error) {
	res := PointsInfo{}
	err := w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		balance, err := w.repository.GetUserPoints(ctx, username)
		if err != nil {
			return fmt.Errorf("getting user points failed: %w", err)
		}
		res.Balance = balance
		deductions, err := w.repository.GetUserDeductions(ctx, username)
		if err != nil {
			return fmt.Errorf("getting user deductions failed: %w", err)
		}
		res.Deductions = deductions
		return nil
	})
	if err != nil {
		return PointsInfo{}, err //nolint:wrapcheck // unnecessary
	}
	return res, nil
}

func (w *Wallet) AddPoints(ctx context.Context, username string, points int64) error {
	w.logger.DebugCtx(
		ctx,
		"adding points",
		zap.String("username", username),
		zap.Int64("points", points),
	)
	return w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		balance, err := w.repository.GetUserPoints(ctx, username)
		if err != nil {
			return fmt.Errorf("getting user points failed: %w", err)
		}
		if err := w.repository.SetUserPoints(ctx, username, balance+points); err != nil {
			return fmt.Errorf("setting user points failed: %w", err)
		}
		return nil
	})
}

func (w *Wallet) DeductPoints(ctx context.Context, username string, points int64, reason string) error {
	w.logger.DebugCtx(
		ctx,
		"deducting points",
		zap.String("username", username),
		zap.Int64("points", points),
		zap.String("reason", reason),
	)
	return w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return w.deductInTransaction(ctx, username, points, reason)
	})
}

// DeductPointsInTransaction deducts as part of an already-open transaction,
// for callers that pair the deduction with another effect.
func (w *Wallet) DeductPointsInTransaction(ctx context.Context, username string, points int64, reason string) error {
	return w.deductInTransaction(ctx, username, points, reason)
}

func (w *Wallet) deductInTransaction(ctx context.Context, username string, points int64, reason string) error {
	balance, err := w.repository.GetUserPoints(ctx, username)
	if err != nil {
		return fmt.Errorf("getting user points failed: %w", err)
	}
	if balance < points {
		return ErrNotEnoughPoints
	}
	if err := w.repository.SetUserPoints(ctx, username, balance-points); err != nil {
		return fmt.Errorf("setting user points failed: %w", err)
	}
	return w.repository.InsertDeduction(ctx, data.Deduction{ //nolint:wrapcheck // unnecessary
		Username:    username,
		Points:      points,
		Reason:      reason,
		ProcessTime: time.Now(),
	})
}
