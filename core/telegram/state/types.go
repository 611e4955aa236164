package state

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the chat.
const StateIdle State = "idle"

// Manager tracks per-chat conversation state. Implementations must be safe
// for concurrent use.
type Manager interface {
	// SetState moves the chat to st. Setting StateIdle forgets the chat.
	SetState(chatID int64, st State)
	// GetState returns the chat's state, or StateIdle.
	GetState(chatID int64) State
	// ConsumeState resets the chat to idle and reports true only if it was in st.
	ConsumeState(chatID int64, st State) bool
	// Len reports the number of chats in a non-idle state.
	Len() int
}
