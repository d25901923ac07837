package apiclient

import "sync"

// Sequencer hands out increasing request ids per key.
type Sequencer struct {
	mu   sync.Mutex
	last map[string]uint64
}

func (s *Sequencer) Next(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.last = map[string]uint64{}
	}
	s.last[key]++
	return s.last[key]
}

// Snapshot keeps the response of the newest request applied so far.
// Responses carrying an older id than the applied one are dropped.
type Snapshot[T any] struct {
	mu      sync.RWMutex
	applied uint64
	val     T
	set     bool
}

// Apply stores v if id is newer than the last applied id and reports whether it did.
func (s *Snapshot[T]) Apply(id uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && id <= s.applied {
		return false
	}
	s.applied, s.val, s.set = id, v, true
	return true
}

func (s *Snapshot[T]) Value() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.set
}

// Latest tracks one Snapshot per key, fenced by its own Sequencer.
type Latest[T any] struct {
	seq   Sequencer
	mu    sync.Mutex
	snaps map[string]*Snapshot[T]
}

// Begin reserves the id for a request about to be issued for key.
func (l *Latest[T]) Begin(key string) uint64 { return l.seq.Next(key) }

func (l *Latest[T]) snap(key string) *Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snaps == nil {
		l.snaps = map[string]*Snapshot[T]{}
	}
	s, ok := l.snaps[key]
	if !ok {
		s = &Snapshot[T]{}
		l.snaps[key] = s
	}
	return s
}

func (l *Latest[T]) Apply(key string, id uint64, v T) bool { return l.snap(key).Apply(id, v) }

func (l *Latest[T]) Get(key string) (T, bool) { return l.snap(key).Value() }

// Forget drops the snapshot for key, e.g. on logout.
func (l *Latest[T]) Forget(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.snaps, key)
}
