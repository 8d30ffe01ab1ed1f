package verification

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

const (
	amountTolerance = 0.001

	// grace for transactions posted just before the session start was recorded
	earlyGraceSeconds = 30

	paymentTimeLayout = "2006/01/02 15:04:05"
)

// Record is one externally observed transaction, supplied fresh on every
// poll. PaymentTime is a locale-formatted date-time string and takes
// precedence over RawTimestamp when it parses.
type Record struct {
	ActualAmount float64
	UserMemo     string
	PaymentTime  string
	RawTimestamp string
}

type matchOutcome int

const (
	outcomeContentMismatch matchOutcome = iota
	outcomeTooEarly
	outcomeTooLate
	outcomeMatch
)

type Matcher struct {
	logger *logging.ZapLogger
}

func NewMatcher(logger *logging.ZapLogger) *Matcher {
	return &Matcher{
		logger: logger,
	}
}

// IsVerified reports whether any record is a valid, timely match for the
// datum. Content is checked before timing on every record; a record with the
// right amount but a stale timestamp is rejected on a different path than a
// record with the wrong amount.
func (m *Matcher) IsVerified(
	ctx context.Context,
	records []Record,
	datum Datum,
	startTimestamp int64,
	windowSeconds int64,
) bool {
	for _, record := range records {
		switch m.evaluate(record, datum, startTimestamp, windowSeconds) {
		case outcomeMatch:
			m.logger.InfoCtx(
				ctx,
				"record matched",
				zap.String("method", string(datum.Method)),
				zap.String("expected", datum.DisplayValue()),
			)
			return true
		case outcomeTooEarly:
			m.logger.DebugCtx(ctx, "content matched but record predates grace window")
		case outcomeTooLate:
			m.logger.DebugCtx(ctx, "content matched but record is outside the verification window")
		case outcomeContentMismatch:
		}
	}
	return false
}

func (m *Matcher) evaluate(record Record, datum Datum, startTimestamp, windowSeconds int64) matchOutcome {
	if !contentMatches(record, datum) {
		return outcomeContentMismatch
	}
	recordTimestamp := parseRecordTimestamp(record)
	if recordTimestamp < startTimestamp-earlyGraceSeconds {
		return outcomeTooEarly
	}
	if recordTimestamp > startTimestamp+windowSeconds {
		return outcomeTooLate
	}
	return outcomeMatch
}

func contentMatches(record Record, datum Datum) bool {
	if datum.Method == MethodMemo {
		return strings.Contains(record.UserMemo, datum.MemoCode)
	}
	return math.Abs(record.ActualAmount-datum.ExpectedAmount()) < amountTolerance
}

// parseRecordTimestamp extracts epoch seconds: the formatted payment time
// wins when it parses, then the raw timestamp field, then 0.
func parseRecordTimestamp(record Record) int64 {
	if record.PaymentTime != "" {
		normalized := strings.ReplaceAll(record.PaymentTime, "-", "/")
		if t, err := time.ParseInLocation(paymentTimeLayout, normalized, time.Local); err == nil {
			return t.Unix()
		}
	}
	if record.RawTimestamp != "" {
		if ts, err := strconv.ParseInt(record.RawTimestamp, 10, 64); err == nil {
			return ts
		}
		if ts, err := strconv.ParseFloat(record.RawTimestamp, 64); err == nil {
			return int64(ts)
		}
	}
	return 0
}
