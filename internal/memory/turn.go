package memory

import "time"

// ConversationTurn is one user-input/response exchange recorded in a session.
// Turns are immutable once appended to a Window.
type ConversationTurn struct {
	Timestamp    time.Time `json:"timestamp"`
	UserInput    string    `json:"user_input"`
	AriResponse  string    `json:"ari_response"`
	ResponseType string    `json:"response_type"`
	Success      bool      `json:"success"`
	Position     int       `json:"context_position"`
}

// DefaultContextLength is the window capacity used when none is configured.
const DefaultContextLength = 50

// Window is a bounded, ordered buffer of the active session's most recent
// turns. When full, Append evicts the oldest turn (strict FIFO).
type Window struct {
	capacity int
	turns    []ConversationTurn
}

// NewWindow creates a window with the given capacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultContextLength
	}
	return &Window{
		capacity: capacity,
		turns:    make([]ConversationTurn, 0, capacity),
	}
}

// Append adds a turn, evicting the oldest one first if the window is full.
func (w *Window) Append(t ConversationTurn) {
	if len(w.turns) == w.capacity {
		copy(w.turns, w.turns[1:])
		w.turns = w.turns[:len(w.turns)-1]
	}
	w.turns = append(w.turns, t)
}

// Recent returns the last n turns in chronological order, or fewer if the
// window holds fewer.
func (w *Window) Recent(n int) []ConversationTurn {
	if n <= 0 {
		return nil
	}
	if n > len(w.turns) {
		n = len(w.turns)
	}
	out := make([]ConversationTurn, n)
	copy(out, w.turns[len(w.turns)-n:])
	return out
}

// Turns returns a copy of the full window contents in chronological order.
func (w *Window) Turns() []ConversationTurn {
	out := make([]ConversationTurn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len returns the number of turns currently held.
func (w *Window) Len() int {
	return len(w.turns)
}

// Capacity returns the configured maximum length.
func (w *Window) Capacity() int {
	return w.capacity
}

// Reset discards all held turns. Capacity is unchanged.
func (w *Window) Reset() {
	w.turns = w.turns[:0]
}
