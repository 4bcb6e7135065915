package cache

import "sync"

// Memory is a map-backed cache. It counts calls so tests can tell hits from
// recomputation.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	sets int
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the stored bytes.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	d, ok := m.data[key]
	if !ok {
		return nil, false
	}
	m.hits++
	return append([]byte(nil), d...), true
}

// Set stores a copy of data.
func (m *Memory) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Gets returns the number of Get calls.
func (m *Memory) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

// Hits returns the number of Get calls that found an entry.
func (m *Memory) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Sets returns the number of Set calls.
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
