package verification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"go-payguard/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordSource struct {
	mux      sync.Mutex
	calls    int
	failures int
	records  []Record
}

func (f *fakeRecordSource) FetchRecords(_ context.Context) ([]Record, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("backend unreachable")
	}
	return f.records, nil
}

type notification struct {
	orderID string
	amount  float64
	outcome string
	reason  string
}

type fakeNotifier struct {
	mux   sync.Mutex
	calls []notification
}

func (f *fakeNotifier) NotifySuccess(_ context.Context, orderID string, amount float64) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls = append(f.calls, notification{orderID: orderID, amount: amount, outcome: "success"})
}

func (f *fakeNotifier) NotifyTimeout(_ context.Context, orderID string, amount float64, reason string) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls = append(f.calls, notification{orderID: orderID, amount: amount, outcome: "timeout", reason: reason})
}

func (f *fakeNotifier) notifications() []notification {
	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]notification(nil), f.calls...)
}

func testConfig(windowSeconds int64) Config {
	return Config{
		PollInterval:  5 * time.Millisecond,
		TickInterval:  5 * time.Millisecond,
		WindowSeconds: windowSeconds,
		SuffixMin:     DefaultSuffixMin,
		SuffixMax:     DefaultSuffixMax,
	}
}

func newTestVerifier(
	cfg Config,
	store *fakeRotationStore,
	source RecordSource,
	notifier OutcomeNotifier,
) *Verifier {
	rotation := NewRotation(store, cfg.SuffixMin, cfg.SuffixMax)
	return NewVerifier(cfg, NewGenerator(), rotation, source, notifier, logging.NewNop())
}

func waitForSession(t *testing.T, session *Session) {
	t.Helper()
	select {
	case <-session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func nowTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func TestSessionSucceeds(t *testing.T) {
	store := &fakeRotationStore{suffix: 5}
	source := &fakeRecordSource{
		records: []Record{{ActualAmount: 10.05, RawTimestamp: nowTimestamp()}},
	}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(300), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_001", Amount: 10}, MethodDecimal)
	require.NoError(t, err)
	waitForSession(t, session)

	assert.Equal(t, StateSucceeded, session.State())
	assert.Equal(t, []notification{{orderID: "u1_001", amount: 10, outcome: "success"}}, notifier.notifications())
	assert.Equal(t, 6, store.suffix, "verified decimal success advances the rotation")
}

func TestSessionTimesOut(t *testing.T) {
	store := &fakeRotationStore{suffix: 5}
	source := &fakeRecordSource{}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(2), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_002", Amount: 10}, MethodDecimal)
	require.NoError(t, err)
	waitForSession(t, session)

	assert.Equal(t, StateTimedOut, session.State())
	assert.Equal(
		t,
		[]notification{{orderID: "u1_002", amount: 10, outcome: "timeout", reason: TimeoutReason}},
		notifier.notifications(),
	)
	assert.Equal(t, 5, store.suffix, "timeout must not advance the rotation")
	assert.Empty(t, store.saved)
}

func TestSessionCountdownBeatsLatePoll(t *testing.T) {
	// matching records exist, but the window is already spent when the
	// first poll evaluates, so the countdown verdict wins
	store := &fakeRotationStore{suffix: 5}
	source := &fakeRecordSource{
		records: []Record{{ActualAmount: 10.05, RawTimestamp: nowTimestamp()}},
	}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(0), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_003", Amount: 10}, MethodDecimal)
	require.NoError(t, err)
	waitForSession(t, session)

	assert.Equal(t, StateTimedOut, session.State())
	notifications := notifier.notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "timeout", notifications[0].outcome)
}

func TestSessionSurvivesFetchFailures(t *testing.T) {
	store := &fakeRotationStore{suffix: 1}
	source := &fakeRecordSource{
		failures: 3,
		records:  []Record{{ActualAmount: 10.01, RawTimestamp: nowTimestamp()}},
	}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(300), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_004", Amount: 10}, MethodDecimal)
	require.NoError(t, err)
	waitForSession(t, session)

	assert.Equal(t, StateSucceeded, session.State())
}

func TestSessionCancel(t *testing.T) {
	store := &fakeRotationStore{suffix: 1}
	source := &fakeRecordSource{}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(300), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_005", Amount: 10}, MethodDecimal)
	require.NoError(t, err)

	session.Cancel()
	session.Cancel() // idempotent
	waitForSession(t, session)

	assert.True(t, session.Stopped())
	assert.Equal(t, StatePending, session.State(), "cancellation is not a terminal verdict")
	assert.Empty(t, notifier.notifications(), "cancellation must not notify the order store")
}

func TestSessionMemoMethodDoesNotTouchRotation(t *testing.T) {
	store := &fakeRotationStore{suffix: 9}
	source := &fakeRecordSource{}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(300), store, source, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_006", Amount: 10}, MethodMemo)
	require.NoError(t, err)

	// the memo code is random per session, so the matching record can only be
	// staged once the session exists
	source.mux.Lock()
	source.records = []Record{{UserMemo: "code " + session.Datum().MemoCode, RawTimestamp: nowTimestamp()}}
	source.mux.Unlock()

	waitForSession(t, session)

	assert.Equal(t, StateSucceeded, session.State())
	assert.Equal(t, 9, store.suffix, "memo success never advances the decimal rotation")
	assert.Empty(t, store.saved)
}

func TestSessionCountdownCallback(t *testing.T) {
	store := &fakeRotationStore{suffix: 1}
	notifier := &fakeNotifier{}
	verifier := newTestVerifier(testConfig(10), store, &fakeRecordSource{}, notifier)

	session, err := verifier.Begin(context.Background(), Order{ID: "u1_008", Amount: 10}, MethodDecimal)
	require.NoError(t, err)

	var mux sync.Mutex
	seen := make([]int64, 0)
	session.OnTick(func(remaining int64) {
		mux.Lock()
		defer mux.Unlock()
		seen = append(seen, remaining)
	})
	waitForSession(t, session)

	mux.Lock()
	defer mux.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, int64(0), seen[len(seen)-1])
}
