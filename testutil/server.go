package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// FakeBackend is an in-process stand-in for the document Q&A service:
// the /api HTTP surface plus the websocket chat endpoint.
type FakeBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	files     []map[string]interface{}
	uploads   []string
	histories map[string][]map[string]interface{}
	nextChat  int
	resets    int

	// AnswerFrame builds the raw frame sent back for each received
	// question frame. Defaults to a "complete" frame echoing the
	// question.
	AnswerFrame func(chatID, question string) []byte
}

// NewFakeBackend starts the fake service. It is shut down with the
// test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		histories: map[string][]map[string]interface{}{},
	}
	fb.AnswerFrame = func(chatID, question string) []byte {
		frame := map[string]interface{}{
			"type":      "complete",
			"id":        fmt.Sprintf("ans-%s", question),
			"answer":    "echo: " + question,
			"timestamp": "2024-01-01T10:00:00",
		}
		data, _ := json.Marshal(frame)
		return data
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/files", fb.handleFiles)
	mux.HandleFunc("/api/upload", fb.handleUpload)
	mux.HandleFunc("/api/chat/create", fb.handleCreate)
	mux.HandleFunc("/api/chat/ws", fb.handleSocket)
	mux.HandleFunc("/api/chat/", fb.handleHistory)
	mux.HandleFunc("/api/chat", fb.handleChat)
	mux.HandleFunc("/api/reset", fb.handleReset)

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the backend base URL.
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// AddFile seeds the uploaded-file listing.
func (fb *FakeBackend) AddFile(id, filename string, size int64) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.files = append(fb.files, map[string]interface{}{
		"id": id, "filename": filename, "size": size,
	})
}

// SetHistory seeds the stored history for a chat id.
func (fb *FakeBackend) SetHistory(chatID string, messages []map[string]interface{}) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.histories[chatID] = messages
}

// Uploads returns the filenames received by the upload endpoint.
func (fb *FakeBackend) Uploads() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]string, len(fb.uploads))
	copy(out, fb.uploads)
	return out
}

// Resets returns how many times the reset endpoint was called.
func (fb *FakeBackend) Resets() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.resets
}

func (fb *FakeBackend) handleFiles(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	files := fb.files
	if files == nil {
		files = []map[string]interface{}{}
	}
	writeJSON(w, map[string]interface{}{
		"files":       files,
		"total_files": len(files),
	})
}

func (fb *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fb.mu.Lock()
	for _, headers := range r.MultipartForm.File["files"] {
		fb.uploads = append(fb.uploads, headers.Filename)
		fb.files = append(fb.files, map[string]interface{}{
			"id": fmt.Sprintf("file-%d", len(fb.files)+1), "filename": headers.Filename, "size": headers.Size,
		})
	}
	fb.mu.Unlock()
	writeJSON(w, map[string]interface{}{"message": "ok"})
}

func (fb *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.nextChat++
	chatID := fmt.Sprintf("chat-%d", fb.nextChat)
	fb.histories[chatID] = []map[string]interface{}{}
	fb.mu.Unlock()
	writeJSON(w, map[string]interface{}{"chat_id": chatID})
}

func (fb *FakeBackend) handleHistory(w http.ResponseWriter, r *http.Request) {
	chatID := strings.TrimPrefix(r.URL.Path, "/api/chat/")
	fb.mu.Lock()
	messages, ok := fb.histories[chatID]
	fb.mu.Unlock()
	if !ok {
		http.Error(w, `{"error": "chat not found"}`, http.StatusNotFound)
		return
	}
	if messages == nil {
		messages = []map[string]interface{}{}
	}
	writeJSON(w, map[string]interface{}{
		"chat_id":       chatID,
		"messages":      messages,
		"message_count": len(messages),
	})
}

func (fb *FakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fb.mu.Lock()
		chats := []map[string]interface{}{}
		for chatID, messages := range fb.histories {
			chats = append(chats, map[string]interface{}{
				"chat_id":       chatID,
				"message_count": len(messages),
			})
		}
		fb.mu.Unlock()
		writeJSON(w, map[string]interface{}{"chats": chats})
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		var req struct {
			ChatID   string `json:"chat_id"`
			Question string `json:"question"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]interface{}{
			"id":        "ans-1",
			"answer":    "echo: " + req.Question,
			"timestamp": "2024-01-01T10:00:00",
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (fb *FakeBackend) handleReset(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.resets++
	fb.mu.Unlock()
	writeJSON(w, map[string]interface{}{"message": "reset"})
}

var upgrader = websocket.Upgrader{}

func (fb *FakeBackend) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame struct {
			ChatID   string `json:"chat_id"`
			Question string `json:"question"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		reply := fb.AnswerFrame(frame.ChatID, frame.Question)
		if reply == nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
