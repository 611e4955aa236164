package state

import "sync"

type memoryManager struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewMemoryManager constructs an in-memory Manager. States never expire.
func NewMemoryManager() Manager {
	return &memoryManager{states: make(map[int64]State)}
}

func (m *memoryManager) SetState(chatID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle || st == "" {
		delete(m.states, chatID)
		return
	}
	m.states[chatID] = st
}

func (m *memoryManager) GetState(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[chatID]; ok {
		return st
	}
	return StateIdle
}

func (m *memoryManager) ConsumeState(chatID int64, st State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.states[chatID]; !ok || cur != st {
		return false
	}
	delete(m.states, chatID)
	return true
}

func (m *memoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
