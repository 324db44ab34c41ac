package fetch

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when a resource is already being fetched.
var ErrInFlight = errors.New("fetch already in flight")

type Outcome int

const (
	Unchanged Outcome = iota
	Changed
	Empty
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unchanged"
}

// Changed reports whether downstream models must be rebuilt. An empty
// document replaces whatever was shown before, so it counts.
func (o Outcome) Changed() bool {
	return o == Changed || o == Empty
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Tracker remembers the last accepted age token of each resource and which
// resources have a request outstanding.
type Tracker struct {
	mu       sync.Mutex
	tokens   map[string]string
	inflight map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{tokens: make(map[string]string), inflight: make(map[string]bool)}
}

// Begin marks name as in flight. It returns false when it already was.
func (t *Tracker) Begin(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight[name] {
		return false
	}
	t.inflight[name] = true
	return true
}

func (t *Tracker) End(name string) {
	t.mu.Lock()
	delete(t.inflight, name)
	t.mu.Unlock()
}

// Unchanged reports whether token equals the last accepted one. A resource
// that was never accepted is always changed.
func (t *Tracker) Unchanged(name, token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.tokens[name]
	return ok && prev == token
}

func (t *Tracker) Accept(name, token string) {
	t.mu.Lock()
	t.tokens[name] = token
	t.mu.Unlock()
}

func (t *Tracker) Token(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, ok := t.tokens[name]
	return tok, ok
}

// Forget drops the accepted token so the next fetch counts as changed.
func (t *Tracker) Forget(name string) {
	t.mu.Lock()
	delete(t.tokens, name)
	t.mu.Unlock()
}
