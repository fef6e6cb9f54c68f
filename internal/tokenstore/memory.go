// ABOUTME: In-memory token store for tests and ephemeral sessions
// ABOUTME: Counts writes so callers can assert the store was left untouched

package tokenstore

import "sync"

// Memory is a Store that lives only in process memory
type Memory struct {
	mu     sync.Mutex
	token  string
	writes int
}

// NewMemory returns a store seeded with token (empty means absent)
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.writes++
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.writes++
}

// Writes returns how many Set and Clear calls have been made
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
