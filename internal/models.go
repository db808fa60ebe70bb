package internal

import (
	"fmt"
	"strings"
	"time"
)

// Message represents one question or answer turn in a chat session.
// A message is either a question record (from the user) or an answer
// record (from the assistant); exactly one of the two fields is set.
type Message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id,omitempty"`
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer,omitempty"`
	Source    string `json:"source,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsQuestion reports whether the message is a user question.
func (m *Message) IsQuestion() bool {
	return m.Question != ""
}

// Time returns the message timestamp as a UTC instant. Wire timestamps
// without a zone suffix are treated as UTC. A zero time is returned for
// empty or unparseable timestamps.
func (m *Message) Time() time.Time {
	return ParseTimestamp(m.Timestamp)
}

// ChatHistory is the server's record of a session, replaced wholesale
// on every fetch and never partially patched.
type ChatHistory struct {
	ChatID       string    `json:"chat_id"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"message_count"`
}

// UploadedFile is a read-only projection of a file stored on the server.
type UploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// FileList is the response of the file listing endpoint.
type FileList struct {
	Files      []UploadedFile `json:"files"`
	TotalFiles int            `json:"total_files"`
}

// UploadResult is the response of the upload endpoint.
type UploadResult struct {
	Message string         `json:"message,omitempty"`
	Files   []UploadedFile `json:"files,omitempty"`
}

// ChatCreated is the response of the session creation endpoint.
type ChatCreated struct {
	ChatID string `json:"chat_id"`
}

// ChatSummary is one entry in the session listing.
type ChatSummary struct {
	ChatID       string `json:"chat_id"`
	MessageCount int    `json:"message_count"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ChatList is the response of the session listing endpoint.
type ChatList struct {
	Chats []ChatSummary `json:"chats"`
}

// AnswerResponse is the response of the HTTP question endpoint, the
// non-socket fallback for asking a single question.
type AnswerResponse struct {
	ID        string `json:"id"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// NormalizeTimestamp appends a trailing UTC designator to a wire
// timestamp that carries no zone information. The backend emits naive
// ISO 8601 timestamps that are always UTC.
func NormalizeTimestamp(ts string) string {
	if ts == "" {
		return ts
	}
	if strings.HasSuffix(ts, "Z") {
		return ts
	}
	// +hh:mm / -hh:mm offsets already carry zone information
	if len(ts) > 6 {
		tail := ts[len(ts)-6:]
		if (tail[0] == '+' || tail[0] == '-') && tail[3] == ':' {
			return ts
		}
	}
	return ts + "Z"
}

// ParseTimestamp parses a wire timestamp into a UTC instant, applying
// NormalizeTimestamp first. Returns the zero time on failure.
func ParseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	normalized := NormalizeTimestamp(ts)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// FormatTimestamp formats a wire timestamp for display. Timestamps with
// and without the trailing designator render identically.
func FormatTimestamp(ts string) string {
	t := ParseTimestamp(ts)
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04 MST")
}

// RelativeTime renders an instant as a short "how long ago" string for
// session listings.
func RelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "min")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	default:
		return plural(int(diff.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
