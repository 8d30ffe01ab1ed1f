package service

import (
	"context"
	"testing"

	"go-payguard/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeductPoints(t *testing.T) {
	tests := []struct {
		name            string
		balance         int64
		points          int64
		expectedErr     error
		expectedBalance int64
		expectedHistory int
	}{
		{
			name:            "sufficient balance",
			balance:         100,
			points:          40,
			expectedBalance: 60,
			expectedHistory: 1,
		},
		{
			name:            "exact balance",
			balance:         40,
			points:          40,
			expectedBalance: 0,
			expectedHistory: 1,
		},
		{
			name:            "insufficient balance",
			balance:         10,
			points:          40,
			expectedErr:     ErrNotEnoughPoints,
			expectedBalance: 10,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := newMemoryPointsRepository()
			repo.points["u1"] = test.balance
			wallet := NewWallet(passthroughTxManager{}, repo, logging.NewNop())

			err := wallet.DeductPoints(context.Background(), "u1", test.points, "instance renewal")
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, test.expectedBalance, repo.points["u1"])
			assert.Len(t, repo.deductions, test.expectedHistory)
		})
	}
}

func TestAddPoints(t *testing.T) {
	repo := newMemoryPointsRepository()
	wallet := NewWallet(passthroughTxManager{}, repo, logging.NewNop())

	require.NoError(t, wallet.AddPoints(context.Background(), "u1", 30))
	require.NoError(t, wallet.AddPoints(context.Background(), "u1", 12))

	assert.Equal(t, int64(42), repo.points["u1"])
}

func TestGetUserPointsInfo(t *testing.T) {
	repo := newMemoryPointsRepository()
	repo.points["u1"] = 58
	wallet := NewWallet(passthroughTxManager{}, repo, logging.NewNop())

	require.NoError(t, wallet.DeductPoints(context.Background(), "u1", 8, "instance renewal"))

	info, err := wallet.GetUserPointsInfo(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), info.Balance)
	require.Len(t, info.Deductions, 1)
	assert.Equal(t, "instance renewal", info.Deductions[0].Reason)
	assert.Equal(t, int64(8), info.Deductions[0].Points)
}

func TestGetUserPointsInfoUnknownUser(t *testing.T) {
	wallet := NewWallet(passthroughTxManager{}, newMemoryPointsRepository(), logging.NewNop())

	info, err := wallet.GetUserPointsInfo(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Balance)
	assert.Empty(t, info.Deductions)
}
