package internal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iksnae/pdfchat/testutil"
)

func dialTestSocket(t *testing.T, fb *testutil.FakeBackend, chatID string) *Socket {
	t.Helper()
	sock, err := DialSocket(context.Background(), fb.URL(), chatID)
	if err != nil {
		t.Fatalf("DialSocket failed: %v", err)
	}
	t.Cleanup(sock.Close)
	return sock
}

func receiveMessage(t *testing.T, sock *Socket) Message {
	t.Helper()
	select {
	case msg, ok := <-sock.Messages():
		if !ok {
			t.Fatal("message channel closed before a message arrived")
		}
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for socket message")
	}
	return Message{}
}

func TestDialSocketEmptyChatID(t *testing.T) {
	sock, err := DialSocket(context.Background(), "http://localhost:1", "")
	if err != nil {
		t.Fatalf("DialSocket with empty id errored: %v", err)
	}
	if sock.Connected() {
		t.Error("socket with empty chat id reports connected")
	}

	// Sends are dropped without error; pending returns to false.
	sock.Send("hello?")
	if sock.Pending() {
		t.Error("pending stuck true after dropped send")
	}

	// No read loop owns the channel, so it is closed up front and a
	// consumer pumping it does not block forever.
	select {
	case _, ok := <-sock.Messages():
		if ok {
			t.Error("unexpected message from inert socket")
		}
	case <-time.After(time.Second):
		t.Fatal("message channel of inert socket not closed")
	}
	sock.Close()
}

func TestSocketQuestionAnswer(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	sock := dialTestSocket(t, fb, "chat-1")

	if !sock.Connected() {
		t.Fatal("socket not connected after dial")
	}

	sock.Send("what is this document about?")
	msg := receiveMessage(t, sock)

	if msg.Answer != "echo: what is this document about?" {
		t.Errorf("answer = %q", msg.Answer)
	}
	if msg.ChatID != "chat-1" {
		t.Errorf("chat id = %q, want chat-1", msg.ChatID)
	}
	if msg.Timestamp != "2024-01-01T10:00:00Z" {
		t.Errorf("timestamp = %q, want normalized form", msg.Timestamp)
	}
	if sock.Pending() {
		t.Error("pending still true after answer arrived")
	}

	log := sock.Log()
	if len(log) != 1 || log[0].ID != msg.ID {
		t.Errorf("log = %+v, want the delivered message", log)
	}
}

func TestSocketPendingWhileAwaitingAnswer(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	release := make(chan struct{})
	fb.AnswerFrame = func(chatID, question string) []byte {
		<-release
		data, _ := json.Marshal(map[string]interface{}{
			"type": "complete", "id": "ans-1", "answer": "done", "timestamp": "2024-01-01T10:00:00",
		})
		return data
	}

	sock := dialTestSocket(t, fb, "chat-1")
	sock.Send("slow question")

	if !sock.Pending() {
		t.Error("pending false while answer is outstanding")
	}

	close(release)
	receiveMessage(t, sock)
	if sock.Pending() {
		t.Error("pending true after answer arrived")
	}
}

func TestSocketErrorFrame(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.AnswerFrame = func(chatID, question string) []byte {
		data, _ := json.Marshal(map[string]interface{}{"type": "error"})
		return data
	}

	sock := dialTestSocket(t, fb, "chat-1")
	sock.Send("breaks the server")
	msg := receiveMessage(t, sock)

	if msg.Answer != ErrorAnswerText {
		t.Errorf("answer = %q, want the fixed error text", msg.Answer)
	}
	if msg.ID == "" {
		t.Error("error message has no generated id")
	}
	if ParseTimestamp(msg.Timestamp).IsZero() {
		t.Errorf("error message timestamp %q does not parse", msg.Timestamp)
	}
	if sock.Pending() {
		t.Error("pending still true after error frame")
	}
}

func TestSocketUnknownFrameTypeDropped(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	replies := make(chan []byte, 2)
	data, _ := json.Marshal(map[string]interface{}{"type": "progress", "answer": "ignored"})
	replies <- data
	data, _ = json.Marshal(map[string]interface{}{
		"type": "complete", "id": "ans-1", "answer": "real answer", "timestamp": "2024-01-01T10:00:00",
	})
	replies <- data
	fb.AnswerFrame = func(chatID, question string) []byte { return <-replies }

	sock := dialTestSocket(t, fb, "chat-1")

	// The unknown frame is dropped without clearing pending; only the
	// following complete frame is delivered.
	sock.Send("first")
	sock.Send("second")
	msg := receiveMessage(t, sock)

	if msg.Answer != "real answer" {
		t.Errorf("delivered answer = %q, want the complete frame only", msg.Answer)
	}
	if len(sock.Log()) != 1 {
		t.Errorf("log has %d entries, want 1", len(sock.Log()))
	}
}

func TestSocketQuestionFrameShape(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	got := make(chan string, 1)
	fb.AnswerFrame = func(chatID, question string) []byte {
		got <- chatID + "|" + question
		data, _ := json.Marshal(map[string]interface{}{
			"type": "complete", "id": "ans-1", "answer": "ok", "timestamp": "2024-01-01T10:00:00",
		})
		return data
	}

	sock := dialTestSocket(t, fb, "chat-9")
	sock.Send("does the frame carry the session?")
	receiveMessage(t, sock)

	select {
	case frame := <-got:
		if frame != "chat-9|does the frame carry the session?" {
			t.Errorf("server saw frame %q", frame)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the question frame")
	}
}

func TestSocketClose(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	sock := dialTestSocket(t, fb, "chat-1")

	sock.Close()
	if sock.Connected() {
		t.Error("socket still connected after Close")
	}

	// The message channel drains closed.
	select {
	case _, ok := <-sock.Messages():
		if ok {
			t.Error("unexpected message after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message channel not closed after Close")
	}

	// No reconnect: sends after close are dropped silently.
	sock.Send("into the void")
	if sock.Pending() {
		t.Error("pending stuck true after send on closed socket")
	}

	// Close is idempotent.
	sock.Close()
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"http to ws", "http://localhost:8000", "ws://localhost:8000/api/chat/ws"},
		{"https to wss", "https://pdf.example.com", "wss://pdf.example.com/api/chat/ws"},
		{"trailing slash trimmed", "http://localhost:8000/", "ws://localhost:8000/api/chat/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := socketURL(tt.baseURL)
			if err != nil {
				t.Fatalf("socketURL(%q) failed: %v", tt.baseURL, err)
			}
			if got != tt.want {
				t.Errorf("socketURL(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}
