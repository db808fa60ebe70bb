package internal

// SessionState is the client-side session record: the active chat id,
// the last-fetched history, and a loading flag.
type SessionState struct {
	ChatID  string
	History ChatHistory
	Loading bool
}

// SessionStore owns the session state. All transitions are pure state
// changes over their input: persistence of the chat id happens in the
// caller via StateDB, before or after the transition. The store is
// constructed explicitly and passed to views; there is no package-level
// instance.
//
// The store is only mutated from the command goroutine, so it carries
// no locking.
type SessionStore struct {
	state SessionState
}

// NewSessionStore creates a store seeded with the given chat id
// (usually read from the state DB at startup; empty means no session).
func NewSessionStore(chatID string) *SessionStore {
	return &SessionStore{state: SessionState{ChatID: chatID}}
}

// State returns a copy of the current session state.
func (s *SessionStore) State() SessionState {
	return s.state
}

// ChatID returns the active chat id, empty when no session exists.
func (s *SessionStore) ChatID() string {
	return s.state.ChatID
}

// SetChatID stores the active chat id.
func (s *SessionStore) SetChatID(id string) {
	s.state.ChatID = id
}

// ClearChatID clears the active chat id and empties the history
// messages.
func (s *SessionStore) ClearChatID() {
	s.state.ChatID = ""
	s.state.History.Messages = nil
	s.state.History.MessageCount = 0
}

// SetHistory replaces the chat history wholesale.
func (s *SessionStore) SetHistory(history ChatHistory) {
	s.state.History = history
}

// SetLoading sets the loading flag.
func (s *SessionStore) SetLoading(loading bool) {
	s.state.Loading = loading
}
