package provision

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payguard/internal/payguard/service"
	"go-payguard/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTxManager struct{}

func (passthroughTxManager) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

type fakeWallet struct {
	balance   int64
	deducted  int64
	deductErr error
}

func (f *fakeWallet) DeductPointsInTransaction(_ context.Context, _ string, points int64, _ string) error {
	if f.deductErr != nil {
		return f.deductErr
	}
	if f.balance < points {
		return service.ErrNotEnoughPoints
	}
	f.balance -= points
	f.deducted += points
	return nil
}

type fakePanel struct {
	endTime  time.Time
	err      error
	daemonID string
	uuid     string
	days     int
}

func (f *fakePanel) RenewInstance(_ context.Context, daemonID, uuid string, days int) (time.Time, error) {
	f.daemonID = daemonID
	f.uuid = uuid
	f.days = days
	if f.err != nil {
		return time.Time{}, f.err
	}
	return f.endTime, nil
}

func testRenewalConfig() RenewalConfig {
	return RenewalConfig{PricePerDay: 0.33, DefaultDays: 30}
}

func TestPrice(t *testing.T) {
	renewal := NewRenewal(testRenewalConfig(), passthroughTxManager{}, &fakeWallet{}, &fakePanel{}, logging.NewNop())

	tests := []struct {
		days     int
		expected int64
	}{
		{days: 30, expected: 10},
		{days: 1, expected: 0},
		{days: 7, expected: 2},
		{days: 90, expected: 30},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, renewal.Price(test.days), "days=%d", test.days)
	}
}

func TestRenew(t *testing.T) {
	expiry := time.Now().Add(31 * 24 * time.Hour)
	wallet := &fakeWallet{balance: 50}
	panel := &fakePanel{endTime: expiry}
	renewal := NewRenewal(testRenewalConfig(), passthroughTxManager{}, wallet, panel, logging.NewNop())

	endTime, err := renewal.Renew(context.Background(), "u1", "d1", "abc-uuid", 30)
	require.NoError(t, err)

	assert.Equal(t, expiry, endTime)
	assert.Equal(t, int64(10), wallet.deducted)
	assert.Equal(t, "d1", panel.daemonID)
	assert.Equal(t, "abc-uuid", panel.uuid)
	assert.Equal(t, 30, panel.days)
}

func TestRenewDefaultsDays(t *testing.T) {
	wallet := &fakeWallet{balance: 50}
	panel := &fakePanel{endTime: time.Now()}
	renewal := NewRenewal(testRenewalConfig(), passthroughTxManager{}, wallet, panel, logging.NewNop())

	_, err := renewal.Renew(context.Background(), "u1", "d1", "abc-uuid", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, panel.days)
}

func TestRenewInsufficientPoints(t *testing.T) {
	wallet := &fakeWallet{balance: 3}
	panel := &fakePanel{endTime: time.Now()}
	renewal := NewRenewal(testRenewalConfig(), passthroughTxManager{}, wallet, panel, logging.NewNop())

	_, err := renewal.Renew(context.Background(), "u1", "d1", "abc-uuid", 30)
	assert.ErrorIs(t, err, service.ErrNotEnoughPoints)
	assert.Empty(t, panel.uuid, "the panel must not be called when the deduction fails")
}

func TestRenewPanelFailure(t *testing.T) {
	wallet := &fakeWallet{balance: 50}
	panel := &fakePanel{err: errors.New("daemon offline")}
	renewal := NewRenewal(testRenewalConfig(), passthroughTxManager{}, wallet, panel, logging.NewNop())

	_, err := renewal.Renew(context.Background(), "u1", "d1", "abc-uuid", 30)
	require.Error(t, err)
}
