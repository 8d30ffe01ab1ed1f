package verification

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go-payguard/pkg/logging"

	"github.com/stretchr/testify/assert"
)

const (
	testStart  = int64(1_700_000_000)
	testWindow = int64(300)
)

func decimalDatum(whole int64, suffix int) Datum {
	return Datum{Method: MethodDecimal, WholePart: whole, SuffixCode: suffix}
}

func memoDatum(code string) Datum {
	return Datum{Method: MethodMemo, MemoCode: code}
}

func TestEvaluateOrdering(t *testing.T) {
	matcher := NewMatcher(logging.NewNop())

	// a record with the right amount but an ancient timestamp fails on the
	// timing path, not the content path
	staleMatch := Record{ActualAmount: 10.05, RawTimestamp: strconv.FormatInt(testStart-10000, 10)}
	assert.Equal(t, outcomeTooEarly, matcher.evaluate(staleMatch, decimalDatum(10, 5), testStart, testWindow))

	// a record with the wrong amount never reaches the timing check even
	// with a perfect timestamp
	wrongAmount := Record{ActualAmount: 11.05, RawTimestamp: strconv.FormatInt(testStart, 10)}
	assert.Equal(t, outcomeContentMismatch, matcher.evaluate(wrongAmount, decimalDatum(10, 5), testStart, testWindow))
}

func TestEvaluateTiming(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		expected  matchOutcome
	}{
		{
			name:      "inside the grace period",
			timestamp: testStart - 29,
			expected:  outcomeMatch,
		},
		{
			name:      "exactly at the grace boundary",
			timestamp: testStart - 30,
			expected:  outcomeMatch,
		},
		{
			name:      "just before the grace period",
			timestamp: testStart - 31,
			expected:  outcomeTooEarly,
		},
		{
			name:      "exactly at window close",
			timestamp: testStart + testWindow,
			expected:  outcomeMatch,
		},
		{
			name:      "just past window close",
			timestamp: testStart + testWindow + 1,
			expected:  outcomeTooLate,
		},
	}
	matcher := NewMatcher(logging.NewNop())
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := Record{
				ActualAmount: 10.05,
				RawTimestamp: strconv.FormatInt(test.timestamp, 10),
			}
			assert.Equal(t, test.expected, matcher.evaluate(record, decimalDatum(10, 5), testStart, testWindow))
		})
	}
}

func TestAmountTolerance(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		expected bool
	}{
		{
			name:     "exact",
			actual:   10.05,
			expected: true,
		},
		{
			name:     "within tolerance",
			actual:   10.0501,
			expected: true,
		},
		{
			name:     "outside tolerance",
			actual:   10.052,
			expected: false,
		},
		{
			name:     "below expected outside tolerance",
			actual:   10.048,
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := Record{ActualAmount: test.actual}
			assert.Equal(t, test.expected, contentMatches(record, decimalDatum(10, 5)))
		})
	}
}

func TestMemoSubstring(t *testing.T) {
	tests := []struct {
		name     string
		memo     string
		code     string
		expected bool
	}{
		{
			name:     "exact code inside memo",
			memo:     "payment ref 4821 thanks",
			code:     "4821",
			expected: true,
		},
		{
			name:     "prefix of the code still matches as substring",
			memo:     "payment ref 4821 thanks",
			code:     "482",
			expected: true,
		},
		{
			name:     "different code",
			memo:     "payment ref 4821 thanks",
			code:     "4822",
			expected: false,
		},
		{
			name:     "empty memo",
			memo:     "",
			code:     "4821",
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := Record{UserMemo: test.memo}
			assert.Equal(t, test.expected, contentMatches(record, memoDatum(test.code)))
		})
	}
}

func TestParseRecordTimestamp(t *testing.T) {
	paymentTime := time.Date(2026, 9, 1, 12, 30, 45, 0, time.Local)

	tests := []struct {
		name     string
		record   Record
		expected int64
	}{
		{
			name:     "formatted payment time with dashes",
			record:   Record{PaymentTime: "2026-09-01 12:30:45"},
			expected: paymentTime.Unix(),
		},
		{
			name:     "formatted payment time with slashes",
			record:   Record{PaymentTime: "2026/09/01 12:30:45"},
			expected: paymentTime.Unix(),
		},
		{
			name:     "payment time wins over the raw timestamp",
			record:   Record{PaymentTime: "2026-09-01 12:30:45", RawTimestamp: "12345"},
			expected: paymentTime.Unix(),
		},
		{
			name:     "unparseable payment time falls back to the raw timestamp",
			record:   Record{PaymentTime: "yesterday", RawTimestamp: "12345"},
			expected: 12345,
		},
		{
			name:     "raw timestamp only",
			record:   Record{RawTimestamp: "1700000000"},
			expected: 1_700_000_000,
		},
		{
			name:     "fractional raw timestamp truncates",
			record:   Record{RawTimestamp: "1700000000.75"},
			expected: 1_700_000_000,
		},
		{
			name:     "nothing parseable means infinitely old",
			record:   Record{PaymentTime: "???", RawTimestamp: "soon"},
			expected: 0,
		},
		{
			name:     "empty record",
			record:   Record{},
			expected: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, parseRecordTimestamp(test.record))
		})
	}
}

func TestIsVerified(t *testing.T) {
	matcher := NewMatcher(logging.NewNop())
	now := strconv.FormatInt(testStart+10, 10)

	tests := []struct {
		name     string
		records  []Record
		datum    Datum
		expected bool
	}{
		{
			name:     "no records",
			records:  nil,
			datum:    decimalDatum(10, 5),
			expected: false,
		},
		{
			name: "match among noise",
			records: []Record{
				{ActualAmount: 3.50, RawTimestamp: now},
				{ActualAmount: 10.05, RawTimestamp: now},
				{ActualAmount: 99.99, RawTimestamp: now},
			},
			datum:    decimalDatum(10, 5),
			expected: true,
		},
		{
			name: "right amount wrong time only",
			records: []Record{
				{ActualAmount: 10.05, RawTimestamp: "1000"},
			},
			datum:    decimalDatum(10, 5),
			expected: false,
		},
		{
			name: "memo match",
			records: []Record{
				{UserMemo: "order 7312 paid", RawTimestamp: now},
			},
			datum:    memoDatum("7312"),
			expected: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verified := matcher.IsVerified(context.Background(), test.records, test.datum, testStart, testWindow)
			assert.Equal(t, test.expected, verified)
		})
	}
}
