package blocks

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

// monotonic never lets a clock go backwards.
type monotonic struct {
	last  uint64
	mutex *deadlock.Mutex
}

func (m *monotonic) observe(t uint64) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if t > m.last {
		m.last = t
	}
	return m.last
}

// System reads the wall clock in unix seconds.
type System struct {
	m monotonic
}

func NewSystem() *System {
	return &System{m: monotonic{mutex: &deadlock.Mutex{}}}
}

func (s *System) Now() uint64 {
	return s.m.observe(uint64(time.Now().Unix()))
}

// Manual only moves when told to. Used by tests and simulations.
type Manual struct {
	now   uint64
	mutex *deadlock.Mutex
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start, mutex: &deadlock.Mutex{}}
}

func (m *Manual) Now() uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.now
}

// Set moves the clock to t. Earlier times are ignored.
func (m *Manual) Set(t uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if t > m.now {
		m.now = t
	}
}

func (m *Manual) Advance(seconds uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.now += seconds
}
