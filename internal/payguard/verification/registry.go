package verification

import (
	"go-payguard/pkg/threadsafe"
)

// Registry tracks the live session per order id so the API can look up
// progress and cancel, and so one order cannot run two sessions at once.
type Registry struct {
	sessions *threadsafe.Map[string, *Session]
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: threadsafe.NewMap[string, *Session](),
	}
}

// Add registers a session. False when the order already has a live one; a
// finished or cancelled session is silently replaced.
func (r *Registry) Add(orderID string, session *Session) bool {
	return r.sessions.Upsert(orderID, session, func(old *Session) bool {
		return old.Stopped()
	})
}

func (r *Registry) Get(orderID string) (*Session, bool) {
	return r.sessions.Get(orderID)
}

func (r *Registry) Remove(orderID string) {
	r.sessions.Delete(orderID)
}
