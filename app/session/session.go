// Package session tracks which chats are waiting for a search query.
package session

import "github.com/m3rciful/moviebot/core/telegram/state"

// AwaitingSearch is the state a chat enters after /search.
const AwaitingSearch state.State = "awaiting_search"

// Sessions wraps a state manager with the search-specific transitions.
type Sessions struct {
	mgr state.Manager
}

// New returns Sessions backed by mgr, or by a fresh in-memory manager when mgr is nil.
func New(mgr state.Manager) *Sessions {
	if mgr == nil {
		mgr = state.NewMemoryManager()
	}
	return &Sessions{mgr: mgr}
}

// MarkAwaitingSearch puts the chat into search mode. Repeating it is a no-op.
func (s *Sessions) MarkAwaitingSearch(chatID int64) {
	s.mgr.SetState(chatID, AwaitingSearch)
}

// IsAwaitingSearch reports whether the next free text of the chat is a query.
func (s *Sessions) IsAwaitingSearch(chatID int64) bool {
	return s.mgr.GetState(chatID) == AwaitingSearch
}

// ClearAwaitingSearch returns the chat to idle if it was waiting for a query.
func (s *Sessions) ClearAwaitingSearch(chatID int64) {
	s.mgr.ConsumeState(chatID, AwaitingSearch)
}

// ConsumeAwaitingSearch clears search mode and reports whether it was set.
// Only one of several concurrent callers for the same chat gets true.
func (s *Sessions) ConsumeAwaitingSearch(chatID int64) bool {
	return s.mgr.ConsumeState(chatID, AwaitingSearch)
}

// Pending returns the number of chats not idle.
func (s *Sessions) Pending() int {
	return s.mgr.Len()
}
