package verification

import (
	"context"
	"fmt"
	"sync"
)

// RotationStore persists the decimal-suffix cursor across restarts, keyed by
// a fixed name on the storage side.
type RotationStore interface {
	LoadSuffix(ctx context.Context) (int, error)
	SaveSuffix(ctx context.Context, suffix int) error
}

// Rotation is the shared cursor deciding the next decimal suffix to issue.
// Reads clamp an out-of-range stored value back to the minimum; the cursor
// itself only moves forward on a confirmed payment.
type Rotation struct {
	store RotationStore
	min   int
	max   int
	mux   sync.Mutex
}

func NewRotation(store RotationStore, min, max int) *Rotation {
	return &Rotation{
		store: store,
		min:   min,
		max:   max,
	}
}

// Current returns the suffix due to be issued next without reserving it. Two
// sessions started before either succeeds will see the same value.
func (r *Rotation) Current() (int, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	suffix, err := r.store.LoadSuffix(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to load suffix: %w", err)
	}
	if suffix > r.max || suffix < r.min {
		suffix = r.min
	}
	return suffix, nil
}

// Advance moves the cursor by one with wraparound and saves it durably.
// Called only after a decimal-method session reaches Succeeded.
func (r *Rotation) Advance(ctx context.Context) (int, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	suffix, err := r.store.LoadSuffix(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load suffix: %w", err)
	}
	if suffix > r.max || suffix < r.min {
		suffix = r.min
	}
	suffix++
	if suffix > r.max {
		suffix = r.min
	}
	if err := r.store.SaveSuffix(ctx, suffix); err != nil {
		return 0, fmt.Errorf("failed to save suffix: %w", err)
	}
	return suffix, nil
}
