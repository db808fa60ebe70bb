package internal

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SocketPath is the fixed websocket endpoint; the session is carried
// in every outgoing frame, not in the URL.
const SocketPath = "/api/chat/ws"

// ErrorAnswerText is the fixed user-facing text shown when the server
// reports an application error over the socket.
const ErrorAnswerText = "Sorry, something went wrong while answering your question. Please try again."

// QuestionFrame is the single client-to-server frame type.
type QuestionFrame struct {
	ChatID   string `json:"chat_id"`
	Question string `json:"question"`
}

// answerFrame is the server-to-client frame, dispatched on Type.
type answerFrame struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// Socket is the per-session realtime channel: a request-shaped
// question/answer interface layered over one persistent websocket
// connection.
//
// Exactly one Socket is live per non-empty chat id; changing the id
// means closing this Socket and dialing a new one. There is no
// automatic reconnect: once the connection drops, Connected stays
// false until the consuming view reopens the session.
//
// Pending models "one question awaiting one answer". Correlation
// between a sent question and its completion frame is temporal
// (last-sent, next-received); the wire carries no request ids, so the
// interface is only well-defined while a single question is in flight.
type Socket struct {
	chatID string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	pending   bool
	log       []Message

	messages chan Message
	done     chan struct{}
}

// DialSocket opens the realtime channel for chatID against the given
// backend base URL. An empty chat id performs no connection: the
// returned Socket reports Connected() == false and drops sends.
func DialSocket(ctx context.Context, baseURL, chatID string) (*Socket, error) {
	s := &Socket{
		chatID:   chatID,
		messages: make(chan Message, 16),
		done:     make(chan struct{}),
	}
	if chatID == "" {
		// No read loop will ever own the channel; close it here so
		// consumers see the end of the stream immediately.
		close(s.messages)
		close(s.done)
		return s, nil
	}

	wsURL, err := socketURL(baseURL)
	if err != nil {
		return nil, &TransportError{Op: "dial", URL: baseURL, Err: err}
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		LogError("Socket dial failed: %s: %v", wsURL, err)
		return nil, &TransportError{Op: "dial", URL: wsURL, Err: err}
	}

	s.conn = conn
	s.connected = true
	go s.readLoop(conn)

	LogDebug("Socket connected for chat %s", chatID)
	return s, nil
}

// socketURL converts the HTTP base URL into the websocket endpoint.
func socketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + SocketPath
	return u.String(), nil
}

// Connected reports whether the connection is currently open.
func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Pending reports whether a question is awaiting its answer.
func (s *Socket) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Messages delivers inbound answer messages in arrival order. The
// channel is closed when the connection ends.
func (s *Socket) Messages() <-chan Message {
	return s.messages
}

// Log returns a copy of the messages received so far, in arrival order.
func (s *Socket) Log() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.log))
	copy(out, s.log)
	return out
}

// Send serializes one question frame and writes it if the connection
// is open. When it is not, the pending flag is cleared and the send is
// logged and dropped; the caller sees no error, only a pending flag
// that returns to false without an answer.
func (s *Socket) Send(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = true
	if !s.connected || s.conn == nil {
		s.pending = false
		LogWarn("Socket not connected, dropping question for chat %s", s.chatID)
		return
	}

	frame := QuestionFrame{ChatID: s.chatID, Question: question}
	data, err := json.Marshal(frame)
	if err != nil {
		s.pending = false
		LogError("Failed to encode question frame: %v", err)
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.pending = false
		LogError("Socket write failed for chat %s: %v", s.chatID, err)
	}
}

// Close tears down the connection if it is still open.
func (s *Socket) Close() {
	s.mu.Lock()
	conn := s.conn
	wasConnected := s.connected
	s.conn = nil
	s.connected = false
	s.mu.Unlock()

	if wasConnected && conn != nil {
		_ = conn.Close()
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// readLoop processes inbound frames strictly in arrival order and
// appends to the message log in that order.
func (s *Socket) readLoop(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		close(s.messages)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				LogWarn("Socket closed for chat %s: %v", s.chatID, err)
			}
			return
		}

		var frame answerFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			LogDebug("Dropping undecodable frame: %v", err)
			continue
		}

		switch frame.Type {
		case "complete":
			msg := Message{
				ID:        frame.ID,
				ChatID:    s.chatID,
				Answer:    frame.Answer,
				Timestamp: NormalizeTimestamp(frame.Timestamp),
			}
			s.deliver(msg)
		case "error":
			msg := Message{
				ID:        uuid.NewString(),
				ChatID:    s.chatID,
				Answer:    ErrorAnswerText,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}
			s.deliver(msg)
		default:
			// Undefined frame type: drop without touching the
			// pending flag.
			LogDebug("Dropping frame with unknown type %q", frame.Type)
		}
	}
}

// deliver appends msg to the log, clears the pending flag, and pushes
// the message to the consumer.
func (s *Socket) deliver(msg Message) {
	s.mu.Lock()
	s.log = append(s.log, msg)
	s.pending = false
	s.mu.Unlock()

	select {
	case s.messages <- msg:
	case <-s.done:
	}
}
