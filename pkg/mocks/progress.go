package mocks

import (
	"sync"

	"github.com/user/vidanim/pkg/ports"
)

// Progress records progress reports.
type Progress struct {
	mu       sync.Mutex
	total    int64
	count    int64
	finished bool
}

func (m *Progress) SetTotal(total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

func (m *Progress) Increment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
}

func (m *Progress) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
}

// Total returns the last total set.
func (m *Progress) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Count returns the number of increments.
func (m *Progress) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Finished reports whether Finish was called.
func (m *Progress) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

var _ ports.Progress = (*Progress)(nil)
