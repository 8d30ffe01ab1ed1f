package recordsource

import (
	"context"
	"encoding/json"
	"fmt"

	"go-payguard/internal/common/recordsourceprotocol"
	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Config struct {
	ServerAddress string
}

// RecordSource polls the payment-detection backend for the transactions it
// currently observes.
type RecordSource struct {
	cfg    Config
	client *resty.Client
	logger *logging.ZapLogger
}

func New(cfg Config, logger *logging.ZapLogger) *RecordSource {
	return &RecordSource{
		cfg:    cfg,
		client: resty.New(),
		logger: logger,
	}
}

func (rs *RecordSource) FetchRecords(ctx context.Context) ([]verification.Record, error) {
	url := rs.cfg.ServerAddress + "/query_payment"
	resp, err := rs.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}

	response := recordsourceprotocol.Response{}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return nil, fmt.Errorf("error unmarshalling records response: %w", err)
	}
	if response.Status != recordsourceprotocol.StatusSuccess || len(response.Records) == 0 {
		rs.logger.DebugCtx(ctx, "no payment records yet", zap.String("status", response.Status))
		return nil, nil
	}

	records := make([]verification.Record, len(response.Records))
	for i, record := range response.Records {
		records[i] = verification.Record{
			ActualAmount: record.ActualAmount,
			UserMemo:     record.UserMemo,
			PaymentTime:  record.PaymentTime,
			RawTimestamp: record.Timestamp.String(),
		}
	}
	return records, nil
}
