package picker

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Registry keeps one picker per session and widget so that concurrent lookups
// from the same browser tab race against each other, not against other users.
type Registry struct {
	opts Options
	idle time.Duration
	now  func() time.Time

	mu      sync.Mutex
	pickers map[string]*registered
}

type registered struct {
	picker   *Picker
	lastUsed time.Time
}

// NewRegistry returns a registry that drops pickers unused for idle.
func NewRegistry(opts Options, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{opts: opts, idle: idle, now: time.Now, pickers: make(map[string]*registered)}
}

// Get returns the picker for sessionID and name, creating it on first use.
func (r *Registry) Get(sessionID, name string) *Picker {
	key := sessionID + "|" + name
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pickers[key]
	if !ok {
		entry = &registered{picker: New(r.opts)}
		r.pickers[key] = entry
	}
	entry.lastUsed = r.now()
	return entry.picker
}

// Forget drops every picker of a session.
func (r *Registry) Forget(sessionID string) {
	prefix := sessionID + "|"
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.pickers {
		if strings.HasPrefix(key, prefix) {
			delete(r.pickers, key)
		}
	}
}

// Sweep evicts idle pickers and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, entry := range r.pickers {
		if entry.lastUsed.Before(cutoff) {
			delete(r.pickers, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live pickers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pickers)
}

// Run sweeps periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
