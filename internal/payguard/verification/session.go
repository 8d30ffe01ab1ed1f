package verification

import (
	"context"
	"sync"
	"time"

	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type State string

const (
	StatePending   = State("PENDING")
	StateSucceeded = State("SUCCEEDED")
	StateTimedOut  = State("TIMED_OUT")
)

const (
	TimeoutReason = "timeout"
)

// RecordSource is the polled endpoint returning the currently observed
// transactions. It must tolerate being hit every few seconds for the whole
// verification window.
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]Record, error)
}

// OutcomeNotifier reports the terminal verdict to the order store. Delivery
// is best effort; implementations log failures and never return them.
type OutcomeNotifier interface {
	NotifySuccess(ctx context.Context, orderID string, amount float64)
	NotifyTimeout(ctx context.Context, orderID string, amount float64, reason string)
}

type Config struct {
	PollInterval  time.Duration
	TickInterval  time.Duration
	WindowSeconds int64
	SuffixMin     int
	SuffixMax     int
}

func DefaultConfig() Config {
	return Config{
		PollInterval:  3 * time.Second,
		TickInterval:  time.Second,
		WindowSeconds: 300,
		SuffixMin:     DefaultSuffixMin,
		SuffixMax:     DefaultSuffixMax,
	}
}

// Verifier owns the collaborators shared by all sessions and starts new ones.
type Verifier struct {
	cfg       Config
	generator *Generator
	matcher   *Matcher
	rotation  *Rotation
	source    RecordSource
	notifier  OutcomeNotifier
	logger    *logging.ZapLogger
	now       func() time.Time
}

func NewVerifier(
	cfg Config,
	generator *Generator,
	rotation *Rotation,
	source RecordSource,
	notifier OutcomeNotifier,
	logger *logging.ZapLogger,
) *Verifier {
	return &Verifier{
		cfg:       cfg,
		generator: generator,
		matcher:   NewMatcher(logger),
		rotation:  rotation,
		source:    source,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Begin validates the order, generates the datum, and starts the countdown
// and the poll loop. Validation failure means the session never existed.
func (v *Verifier) Begin(ctx context.Context, order Order, method Method) (*Session, error) {
	datum, err := v.generator.Generate(method, order, v.rotation)
	if err != nil {
		return nil, err
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		order:          order,
		datum:          datum,
		cfg:            v.cfg,
		matcher:        v.matcher,
		rotation:       v.rotation,
		source:         v.source,
		notifier:       v.notifier,
		logger:         v.logger,
		startTimestamp: v.now().Unix(),
		state:          StatePending,
		remaining:      v.cfg.WindowSeconds,
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	v.logger.InfoCtx(
		ctx,
		"verification session started",
		zap.String("orderID", order.ID),
		zap.String("method", string(method)),
		zap.String("expected", datum.DisplayValue()),
	)

	go s.run(sessionCtx)
	return s, nil
}

// Session drives the time-bounded verification of one order. A single
// goroutine multiplexes the countdown tick and the poll tick, so a poll
// response arriving after window closure can never flip a timed-out session
// back to success.
type Session struct {
	order          Order
	datum          Datum
	cfg            Config
	matcher        *Matcher
	rotation       *Rotation
	source         RecordSource
	notifier       OutcomeNotifier
	logger         *logging.ZapLogger
	startTimestamp int64

	mux       sync.Mutex
	state     State
	remaining int64

	cancel     context.CancelFunc
	cancelOnce sync.Once
	done       chan struct{}
	onTick     func(remaining int64)
}

// OnTick registers a display callback invoked on every countdown tick.
// Must be called before the first tick fires to be of any use.
func (s *Session) OnTick(f func(remaining int64)) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.onTick = f
}

func (s *Session) Order() Order { return s.order }

func (s *Session) Datum() Datum { return s.datum }

func (s *Session) State() State {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state
}

func (s *Session) Remaining() int64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.remaining
}

// Done is closed once the session stops, terminal or cancelled.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stopped reports whether the session is no longer running. A cancelled
// session stays Pending yet stopped.
func (s *Session) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Cancel stops the countdown and the polling without a terminal notification.
// Idempotent; safe to call after the session already resolved.
func (s *Session) Cancel() {
	s.cancelOnce.Do(s.cancel)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.Cancel()

	countdown := time.NewTicker(s.cfg.TickInterval)
	defer countdown.Stop()
	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()

	// first poll fires immediately rather than one interval in
	if s.poll(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-countdown.C:
			if s.tickCountdown() {
				s.timeOut(ctx)
				return
			}
		case <-poll.C:
			if s.poll(ctx) {
				return
			}
		}
	}
}

// tickCountdown decrements the visible countdown and reports expiry.
func (s *Session) tickCountdown() (expired bool) {
	s.mux.Lock()
	s.remaining--
	remaining := s.remaining
	onTick := s.onTick
	s.mux.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	return remaining <= 0
}

// poll fetches the current records and evaluates them. A fetch failure is
// transient: it is logged and the session keeps polling. Returns true when
// the session reached a terminal state.
func (s *Session) poll(ctx context.Context) (terminal bool) {
	records, err := s.source.FetchRecords(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		s.logger.ErrorCtx(ctx, "record fetch failed, continuing to poll", zap.Error(err))
		return false
	}

	// the countdown verdict wins over a late-arriving poll result
	if s.Remaining() <= 0 {
		s.timeOut(ctx)
		return true
	}

	if !s.matcher.IsVerified(ctx, records, s.datum, s.startTimestamp, s.cfg.WindowSeconds) {
		return false
	}

	s.succeed(ctx)
	return true
}

func (s *Session) succeed(ctx context.Context) {
	if !s.transition(StateSucceeded) {
		return
	}
	s.logger.InfoCtx(ctx, "payment verified", zap.String("orderID", s.order.ID))
	s.notifier.NotifySuccess(ctx, s.order.ID, s.order.Amount)
	if s.datum.Method == MethodDecimal {
		if _, err := s.rotation.Advance(ctx); err != nil {
			s.logger.ErrorCtx(ctx, "failed to advance rotation state", zap.Error(err))
		}
	}
}

func (s *Session) timeOut(ctx context.Context) {
	if !s.transition(StateTimedOut) {
		return
	}
	s.logger.InfoCtx(ctx, "verification window expired", zap.String("orderID", s.order.ID))
	s.notifier.NotifyTimeout(ctx, s.order.ID, s.order.Amount, TimeoutReason)
}

func (s *Session) transition(to State) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state != StatePending {
		return false
	}
	s.state = to
	return true
}
