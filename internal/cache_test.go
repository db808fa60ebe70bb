package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/pdfchat/testutil"
)

func testHistory(chatID string, n int) *ChatHistory {
	h := &ChatHistory{ChatID: chatID, MessageCount: n}
	for i := 0; i < n; i++ {
		h.Messages = append(h.Messages, Message{
			ID:        chatID + "-m" + string(rune('a'+i)),
			Question:  "question",
			Timestamp: "2024-01-01T10:00:00",
		})
	}
	return h
}

func TestSaveAndLoadTranscript(t *testing.T) {
	cm := NewCacheManager(filepath.Join(testutil.CreateTempDir(t), "cache"))

	in := testHistory("chat-1", 2)
	if err := cm.SaveTranscript(in); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	out, err := cm.LoadTranscript("chat-1")
	if err != nil {
		t.Fatalf("LoadTranscript failed: %v", err)
	}
	if out.ChatID != "chat-1" || out.MessageCount != 2 || len(out.Messages) != 2 {
		t.Errorf("loaded transcript = %+v", out)
	}
	if out.Messages[0].ID != in.Messages[0].ID {
		t.Errorf("message id = %q, want %q", out.Messages[0].ID, in.Messages[0].ID)
	}
}

func TestLoadTranscriptMissing(t *testing.T) {
	cm := NewCacheManager(filepath.Join(testutil.CreateTempDir(t), "cache"))

	_, err := cm.LoadTranscript("never-cached")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadTranscript on missing session = %v, want os.ErrNotExist", err)
	}
}

func TestSaveTranscriptUpdatesIndex(t *testing.T) {
	cm := NewCacheManager(filepath.Join(testutil.CreateTempDir(t), "cache"))

	if err := cm.SaveTranscript(testHistory("chat-1", 1)); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	if err := cm.SaveTranscript(testHistory("chat-2", 3)); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if len(index.Sessions) != 2 {
		t.Fatalf("index has %d sessions, want 2", len(index.Sessions))
	}

	// Re-saving the same session replaces its entry instead of
	// appending a second one.
	if err := cm.SaveTranscript(testHistory("chat-1", 5)); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	index, err = cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if len(index.Sessions) != 2 {
		t.Errorf("index grew to %d sessions after re-save, want 2", len(index.Sessions))
	}
	for _, entry := range index.Sessions {
		if entry.ChatID == "chat-1" && entry.MessageCount != 5 {
			t.Errorf("chat-1 entry count = %d, want 5", entry.MessageCount)
		}
	}
}

func TestClearCache(t *testing.T) {
	cm := NewCacheManager(filepath.Join(testutil.CreateTempDir(t), "cache"))

	if err := cm.SaveTranscript(testHistory("chat-1", 1)); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	if err := cm.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, err := cm.LoadTranscript("chat-1"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("transcript survived ClearCache: %v", err)
	}
}
