// Package submit enforces one in-flight submission per form instance.
package submit

import "sync"

type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Guard tracks the submission state of each form, keyed by session and form name.
type Guard struct {
	mu     sync.Mutex
	states map[string]State
}

func NewGuard() *Guard { return &Guard{states: map[string]State{}} }

// Key builds the guard key for one user's form.
func Key(session, form string) string { return session + "|" + form }

// Begin moves key to Submitting. It reports false when a submission for key
// is already in flight. The returned finish func records the outcome; it is
// safe to call more than once, only the first call counts.
func (g *Guard) Begin(key string) (finish func(ok bool), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.states == nil {
		g.states = map[string]State{}
	}
	if g.states[key] == Submitting {
		return func(bool) {}, false
	}
	g.states[key] = Submitting
	var once sync.Once
	return func(ok bool) {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if ok {
				g.states[key] = Success
			} else {
				g.states[key] = Failed
			}
		})
	}, true
}

// State returns the last recorded state for key.
func (g *Guard) State(key string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.states[key]
}

// Settle returns key to Idle once its outcome has been shown to the user.
func (g *Guard) Settle(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.states[key] != Submitting {
		delete(g.states, key)
	}
}
