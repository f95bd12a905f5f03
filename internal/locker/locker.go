package locker

import (
	"context"
	"fmt"
	"sync"
)

// Locker serialises work per key. Unlock must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func PractitionerKey(practitionerID uint) string {
	return fmt.Sprintf("lock:practitioner:%d", practitionerID)
}

func InvoiceNumberKey(practiceID uint) string {
	return fmt.Sprintf("lock:invoice-number:%d", practiceID)
}

// Local is an in-process keyed mutex, enough for a single API instance.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
