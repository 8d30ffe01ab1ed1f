package orderstore

import (
	"context"
	"strconv"

	"go-payguard/pkg/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Config struct {
	ServerAddress string
}

// Notifier reports terminal verification outcomes to the order store. The
// verdict reached by the session is already final when these run, so delivery
// failures are logged and swallowed; there is no retry.
type Notifier struct {
	cfg    Config
	client *resty.Client
	logger *logging.ZapLogger
}

func NewNotifier(cfg Config, logger *logging.ZapLogger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: resty.New(),
		logger: logger,
	}
}

func (n *Notifier) NotifySuccess(ctx context.Context, orderID string, amount float64) {
	n.send(ctx, "/api/payment_success", map[string]string{
		"order_id": orderID,
		"amount":   strconv.FormatFloat(amount, 'f', -1, 64),
	})
}

func (n *Notifier) NotifyTimeout(ctx context.Context, orderID string, amount float64, reason string) {
	n.send(ctx, "/api/payment_failed", map[string]string{
		"order_id": orderID,
		"amount":   strconv.FormatFloat(amount, 'f', -1, 64),
		"reason":   reason,
	})
}

func (n *Notifier) send(ctx context.Context, path string, params map[string]string) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(n.cfg.ServerAddress + path)
	if err != nil {
		n.logger.ErrorCtx(ctx, "outcome notification failed", zap.String("path", path), zap.Error(err))
		return
	}
	if resp.StatusCode() != 200 {
		n.logger.ErrorCtx(
			ctx,
			"outcome notification rejected",
			zap.String("path", path),
			zap.Int("statusCode", resp.StatusCode()),
		)
		return
	}
	n.logger.DebugCtx(ctx, "outcome notification delivered", zap.String("path", path))
}
