package internal

// MessageLog is the view's locally owned, append-only display log.
// It is seeded from loaded history and merged with socket-pushed
// messages; merging is idempotent on message id.
type MessageLog struct {
	messages []Message
	seen     map[string]struct{}
}

// NewMessageLog creates an empty display log.
func NewMessageLog() *MessageLog {
	return &MessageLog{seen: map[string]struct{}{}}
}

// Append adds msg to the log unless its id is already present. An
// incoming duplicate is dropped, never replaced. Returns whether the
// message was added.
func (l *MessageLog) Append(msg Message) bool {
	if msg.ID != "" {
		if _, ok := l.seen[msg.ID]; ok {
			return false
		}
		l.seen[msg.ID] = struct{}{}
	}
	l.messages = append(l.messages, msg)
	return true
}

// Prepend inserts history messages ahead of the current log, keeping
// the dedup-by-id guarantee. Used when the user explicitly loads
// stored history into the visible log.
func (l *MessageLog) Prepend(history []Message) {
	merged := NewMessageLog()
	for _, msg := range history {
		merged.Append(msg)
	}
	for _, msg := range l.messages {
		merged.Append(msg)
	}
	l.messages = merged.messages
	l.seen = merged.seen
}

// Messages returns the log in append order.
func (l *MessageLog) Messages() []Message {
	return l.messages
}

// Len returns the number of entries.
func (l *MessageLog) Len() int {
	return len(l.messages)
}

// Clear empties the log.
func (l *MessageLog) Clear() {
	l.messages = nil
	l.seen = map[string]struct{}{}
}
