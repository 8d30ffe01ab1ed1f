package recordsource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query_payment", r.URL.Path)
		fmt.Fprint(w, `{
			"status": "success",
			"records": [
				{"actual_amount": 10.05, "user_memo": "order u1_001", "payment_time": "2025-03-01 12:00:00"},
				{"actual_amount": 3.5, "user_memo": "", "timestamp": 1740830400}
			]
		}`)
	}))
	defer server.Close()

	source := New(Config{ServerAddress: server.URL}, logging.NewNop())

	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []verification.Record{
		{ActualAmount: 10.05, UserMemo: "order u1_001", PaymentTime: "2025-03-01 12:00:00"},
		{ActualAmount: 3.5, RawTimestamp: "1740830400"},
	}, records)
}

func TestFetchRecordsNoneYet(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "error status", body: `{"status": "error", "message": "no transactions"}`},
		{name: "success with no records", body: `{"status": "success", "records": []}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, test.body)
			}))
			defer server.Close()

			source := New(Config{ServerAddress: server.URL}, logging.NewNop())

			records, err := source.FetchRecords(context.Background())
			require.NoError(t, err, "an empty snapshot is not a fetch failure")
			assert.Empty(t, records)
		})
	}
}

func TestFetchRecordsBadStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := New(Config{ServerAddress: server.URL}, logging.NewNop())

	_, err := source.FetchRecords(context.Background())
	require.Error(t, err)
}

func TestFetchRecordsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	source := New(Config{ServerAddress: server.URL}, logging.NewNop())

	_, err := source.FetchRecords(context.Background())
	require.Error(t, err)
}
