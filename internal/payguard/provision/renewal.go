package provision

import (
	"context"
	"fmt"
	"time"

	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type PointsDeducter interface {
	DeductPointsInTransaction(ctx context.Context, username string, points int64, reason string) error
}

type Panel interface {
	RenewInstance(ctx context.Context, daemonID, uuid string, days int) (time.Time, error)
}

type RenewalConfig struct {
	PricePerDay float64
	DefaultDays int
}

// Renewal charges points for extending a game-server instance. The deduction
// and the panel call share one transaction, so a panel failure rolls the
// points back.
type Renewal struct {
	cfg                RenewalConfig
	transactionManager TransactionManager
	wallet             PointsDeducter
	panel              Panel
	logger             *logging.ZapLogger
}

func NewRenewal(
	cfg RenewalConfig,
	transactionManager TransactionManager,
	wallet PointsDeducter,
	panel Panel,
	logger *logging.ZapLogger,
) *Renewal {
	return &Renewal{
		cfg:                cfg,
		transactionManager: transactionManager,
		wallet:             wallet,
		panel:              panel,
		logger:             logger,
	}
}

// Price returns how many points a renewal of the given length costs.
func (r *Renewal) Price(days int) int64 {
	return int64(float64(days)*r.cfg.PricePerDay + 0.5)
}

func (r *Renewal) DefaultDays() int {
	return r.cfg.DefaultDays
}

func (r *Renewal) Renew(ctx context.Context, username, daemonID, uuid string, days int) (time.Time, error) {
	if days <= 0 {
		days = r.cfg.DefaultDays
	}
	price := r.Price(days)

	var newEndTime time.Time
	err := r.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		reason := fmt.Sprintf("renew instance %s for %d days", uuid, days)
		if err := r.wallet.DeductPointsInTransaction(ctx, username, price, reason); err != nil {
			return err //nolint:wrapcheck // unnecessary
		}
		endTime, err := r.panel.RenewInstance(ctx, daemonID, uuid, days)
		if err != nil {
			return fmt.Errorf("panel renewal failed: %w", err)
		}
		newEndTime = endTime
		return nil
	})
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck // unnecessary
	}

	r.logger.InfoCtx(
		ctx,
		"renewal completed",
		zap.String("username", username),
		zap.String("uuid", uuid),
		zap.Int64("pointsCharged", price),
	)
	return newEndTime, nil
}
