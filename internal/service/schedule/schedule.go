package schedule

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Scheduler runs fn once after d. Scheduled callbacks cannot be cancelled
// and nothing waits on them.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Immediate runs callbacks inline, ignoring the delay.
type Immediate struct{}

// After implements Scheduler.
func (Immediate) After(_ time.Duration, fn func()) {
	fn()
}

// Manual collects callbacks until Flush is called.
type Manual struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.delays = append(m.delays, d)
	m.mu.Unlock()
}

// Delays returns every delay requested so far.
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}

// Pending returns how many callbacks are waiting.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush runs all queued callbacks in scheduling order.
func (m *Manual) Flush() {
	m.mu.Lock()
	queued := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}

// Picker returns a pseudo-random index in [0, n).
type Picker interface {
	IntN(n int) int
}

// RandPicker is a goroutine-safe Picker backed by math/rand/v2.
type RandPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandPicker seeds a picker from the runtime's random source.
func NewRandPicker() *RandPicker {
	return &RandPicker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededPicker returns a reproducible picker.
func NewSeededPicker(seed uint64) *RandPicker {
	return &RandPicker{rng: rand.New(rand.NewPCG(seed, seed))}
}

// IntN implements Picker. It returns 0 when n <= 0.
func (p *RandPicker) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// Fixed always returns the same index, clamped to the range.
type Fixed int

// IntN implements Picker.
func (f Fixed) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	if int(f) >= n {
		return n - 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

// Sequence replays indices in order, wrapping each into range.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Picker that yields values in order, repeating the last one.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// IntN implements Picker.
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	idx := s.next
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	} else {
		s.next++
	}
	v := s.values[idx]
	if v < 0 {
		v = 0
	}
	return v % n
}
