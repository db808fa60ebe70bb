package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/pdfchat/internal"
	"github.com/iksnae/pdfchat/testutil"
)

func newTestModel(t *testing.T) ChatModel {
	t.Helper()
	app, err := internal.NewApp(testutil.CreateTempDir(t), "http://localhost:1")
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })

	// An empty chat id yields an inert socket: no connection, sends
	// dropped. The model logic under test is independent of transport.
	sock, err := internal.DialSocket(context.Background(), "http://localhost:1", "")
	if err != nil {
		t.Fatalf("DialSocket failed: %v", err)
	}
	t.Cleanup(sock.Close)

	m := NewChatModel(context.Background(), app, sock)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(ChatModel)
}

func TestChatModelSocketMessageAppends(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(socketMsg(internal.Message{ID: "a1", Answer: "the answer"}))
	m = updated.(ChatModel)

	if m.log.Len() != 1 {
		t.Fatalf("log has %d messages, want 1", m.log.Len())
	}

	// Same id again is dropped.
	updated, _ = m.Update(socketMsg(internal.Message{ID: "a1", Answer: "duplicate"}))
	m = updated.(ChatModel)
	if m.log.Len() != 1 {
		t.Errorf("log has %d messages after duplicate, want 1", m.log.Len())
	}
}

func TestChatModelMemoryIndicator(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(memoryMsg{history: &internal.ChatHistory{
		ChatID:       "chat-1",
		Messages:     []internal.Message{{ID: "h1", Question: "old"}, {ID: "h2", Answer: "older"}},
		MessageCount: 2,
	}})
	m = updated.(ChatModel)

	if !m.memoryStored || m.memoryCount != 2 {
		t.Errorf("memory indicator = (%v, %d), want (true, 2)", m.memoryStored, m.memoryCount)
	}
	if m.log.Len() != 0 {
		t.Errorf("stored history leaked into the display log: %d messages", m.log.Len())
	}

	// Explicit load merges history ahead of the live log and clears
	// the indicator.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(ChatModel)

	if m.memoryStored || m.memoryCount != 0 {
		t.Error("memory indicator not cleared after explicit load")
	}
	if m.log.Len() != 2 {
		t.Errorf("log has %d messages after load, want 2", m.log.Len())
	}
}

func TestChatModelResetConfirmation(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(ChatModel)
	if !m.confirmReset {
		t.Fatal("ctrl+r did not open the confirmation overlay")
	}

	// "n" cancels without touching anything.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(ChatModel)
	if m.confirmReset {
		t.Error("overlay still open after cancel")
	}
}

// The reset command runs on its own goroutine while the update loop
// keeps reading the store, so all store and state-DB writes must wait
// for the resetMsg handler on the update loop.
func TestChatModelResetMutatesStoreOnlyInUpdate(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	app, err := internal.NewApp(testutil.CreateTempDir(t), fb.URL())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })

	chatID, err := app.EnsureSession(context.Background())
	if err != nil {
		t.Fatalf("EnsureSession failed: %v", err)
	}
	sock, err := internal.DialSocket(context.Background(), fb.URL(), chatID)
	if err != nil {
		t.Fatalf("DialSocket failed: %v", err)
	}
	t.Cleanup(sock.Close)

	m := NewChatModel(context.Background(), app, sock)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(ChatModel)

	// Run the command the way the runtime would: off the update loop.
	// The view goroutine reads the chat id concurrently, so the
	// command must leave the store untouched.
	msg := m.doReset()()
	if got := app.Store.ChatID(); got != chatID {
		t.Fatalf("store chat id = %q after command ran, want untouched %q", got, chatID)
	}

	rm, ok := msg.(resetMsg)
	if !ok {
		t.Fatalf("command returned %T, want resetMsg", msg)
	}
	if rm.err != nil {
		t.Fatalf("reset command failed: %v", rm.err)
	}
	if rm.chatID == "" || rm.chatID == chatID {
		t.Fatalf("reset produced chat id %q, want a fresh one", rm.chatID)
	}
	t.Cleanup(rm.sock.Close)

	// The update loop applies and persists the new session.
	updated, _ := m.Update(msg)
	m = updated.(ChatModel)

	if got := app.Store.ChatID(); got != rm.chatID {
		t.Errorf("store chat id = %q after update, want %q", got, rm.chatID)
	}
	stored, err := app.State.Get(internal.StateKeyChatID)
	if err != nil {
		t.Fatalf("state read failed: %v", err)
	}
	if stored != rm.chatID {
		t.Errorf("persisted chat id = %q, want %q", stored, rm.chatID)
	}
	if m.log.Len() != 0 {
		t.Errorf("display log kept %d messages across reset", m.log.Len())
	}
	if fb.Resets() != 1 {
		t.Errorf("backend saw %d resets, want 1", fb.Resets())
	}
}

func TestChatModelEmptyQuestionIgnored(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("   ")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ChatModel)

	if m.log.Len() != 0 {
		t.Errorf("blank question was appended to the log")
	}
}

func TestNewStylesThemeFallback(t *testing.T) {
	// Unknown themes fall back to the dark palette.
	unknown := NewStyles("solarized")
	dark := NewStyles("dark")
	if unknown.Header.GetForeground() != dark.Header.GetForeground() {
		t.Error("unknown theme did not fall back to dark palette")
	}

	light := NewStyles("light")
	if light.Header.GetForeground() == dark.Header.GetForeground() {
		t.Error("light and dark palettes are identical")
	}
}
