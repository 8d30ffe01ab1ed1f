package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payguard/pkg/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrInstanceNotFound = errors.New("instance not found")

type PanelConfig struct {
	PanelURL string
	APIKey   string
}

// instanceEnvelope is the panel's response wrapper: an HTTP-like status code
// inside the body plus the instance payload.
type instanceEnvelope struct {
	Status int          `json:"status"`
	Data   instanceData `json:"data"`
}

type instanceData struct {
	Config instanceConfig `json:"config"`
}

type instanceConfig struct {
	Nickname string `json:"nickname"`
	EndTime  int64  `json:"endTime"`
}

// PanelClient speaks to the external game-panel API that actually hosts the
// server instances.
type PanelClient struct {
	cfg    PanelConfig
	client *resty.Client
	logger *logging.ZapLogger
	now    func() time.Time
}

func NewPanelClient(cfg PanelConfig, logger *logging.ZapLogger) *PanelClient {
	return &PanelClient{
		cfg:    cfg,
		client: resty.New(),
		logger: logger,
		now:    time.Now,
	}
}

// RenewInstance pushes the instance's expiry forward by the given number of
// days, counting from the current expiry when it is still in the future and
// from now when it already lapsed.
func (pc *PanelClient) RenewInstance(ctx context.Context, daemonID, uuid string, days int) (time.Time, error) {
	instance, err := pc.getInstance(ctx, daemonID, uuid)
	if err != nil {
		return time.Time{}, err
	}

	nowMillis := pc.now().UnixMilli()
	baseTime := instance.Config.EndTime
	if baseTime < nowMillis {
		baseTime = nowMillis
	}
	newEndTime := baseTime + int64(days)*24*60*60*1000

	if err := pc.updateInstance(ctx, daemonID, uuid, newEndTime); err != nil {
		return time.Time{}, err
	}

	pc.logger.InfoCtx(
		ctx,
		"instance renewed",
		zap.String("uuid", uuid),
		zap.Int("days", days),
		zap.Int64("newEndTime", newEndTime),
	)
	return time.UnixMilli(newEndTime), nil
}

func (pc *PanelClient) getInstance(ctx context.Context, daemonID, uuid string) (instanceData, error) {
	resp, err := pc.client.R().
		SetContext(ctx).
		SetQueryParams(pc.instanceParams(daemonID, uuid)).
		Get(pc.cfg.PanelURL + "/api/instance")
	if err != nil {
		return instanceData{}, fmt.Errorf("get instance request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return instanceData{}, fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}

	envelope := instanceEnvelope{}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return instanceData{}, fmt.Errorf("error unmarshalling instance response: %w", err)
	}
	if envelope.Status != 200 {
		return instanceData{}, ErrInstanceNotFound
	}
	return envelope.Data, nil
}

func (pc *PanelClient) updateInstance(ctx context.Context, daemonID, uuid string, endTime int64) error {
	resp, err := pc.client.R().
		SetContext(ctx).
		SetQueryParams(pc.instanceParams(daemonID, uuid)).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"endTime": endTime}).
		Put(pc.cfg.PanelURL + "/api/instance")
	if err != nil {
		return fmt.Errorf("update instance request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}

	envelope := instanceEnvelope{}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("error unmarshalling update response: %w", err)
	}
	if envelope.Status != 200 {
		return fmt.Errorf("panel rejected the update, status %v", envelope.Status)
	}
	return nil
}

func (pc *PanelClient) instanceParams(daemonID, uuid string) map[string]string {
	return map[string]string{
		"apikey":   pc.cfg.APIKey,
		"daemonId": daemonID,
		"uuid":     uuid,
	}
}
