package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/iksnae/pdfchat/internal"
)

// socketMsg carries one inbound answer from the realtime channel.
type socketMsg internal.Message

// socketClosedMsg signals that the channel ended; there is no
// automatic reconnect, the user reopens the chat view to retry.
type socketClosedMsg struct{}

// memoryMsg carries the result of the history check that feeds the
// memory indicator.
type memoryMsg struct {
	history *internal.ChatHistory
	err     error
}

// resetMsg carries the result of the confirmed reset flow.
type resetMsg struct {
	chatID string
	sock   *internal.Socket
	err    error
}

// ChatModel is the interactive chat view: a viewport transcript over a
// locally owned append-only display log, a question input, and the
// destructive reset flow behind a confirmation overlay.
type ChatModel struct {
	app  *internal.App
	sock *internal.Socket
	ctx  context.Context

	input   textinput.Model
	vp      viewport.Model
	spin    bspinner.Model
	styles  Styles
	ready   bool
	width   int
	height  int
	errText string

	log *internal.MessageLog

	// memory indicator: server-side history exists but has not been
	// loaded into the visible log yet
	memoryCount  int
	memoryStored bool

	confirmReset bool
	resetting    bool
}

// NewChatModel builds the chat view for the already-dialed socket.
func NewChatModel(ctx context.Context, app *internal.App, sock *internal.Socket) ChatModel {
	input := textinput.New()
	input.Placeholder = "Type your question..."
	input.Focus()
	input.CharLimit = 2000

	spin := bspinner.New()
	spin.Spinner = bspinner.Dot

	styles := NewStyles(app.Theme())
	spin.Style = styles.Spinner

	return ChatModel{
		app:    app,
		sock:   sock,
		ctx:    ctx,
		input:  input,
		spin:   spin,
		styles: styles,
		log:    internal.NewMessageLog(),
	}
}

// Init starts the socket pump and the history check for the memory
// indicator.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForSocket(m.sock), m.checkMemory())
}

// waitForSocket pumps one inbound message from the channel adapter
// into the update loop.
func waitForSocket(sock *internal.Socket) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-sock.Messages()
		if !ok {
			return socketClosedMsg{}
		}
		return socketMsg(msg)
	}
}

// checkMemory fetches history for the active session to populate the
// memory indicator. The fetched history also lands in the session
// store and the transcript cache.
func (m ChatModel) checkMemory() tea.Cmd {
	app := m.app
	ctx := m.ctx
	chatID := app.Store.ChatID()
	if chatID == "" {
		return nil
	}
	return func() tea.Msg {
		history, err := app.Client.GetChatHistory(ctx, chatID)
		if err != nil {
			return memoryMsg{err: err}
		}
		if err := app.Cache.SaveTranscript(history); err != nil {
			internal.LogWarn("Failed to cache transcript: %v", err)
		}
		return memoryMsg{history: history}
	}
}

// doReset runs the network half of the confirmed reset flow: discard
// server state, create a fresh session, and dial its channel. The
// command goroutine touches neither the store nor the state DB; the
// resetMsg handler applies the new session id on the update loop.
func (m ChatModel) doReset() tea.Cmd {
	client := m.app.Client
	ctx := m.ctx
	old := m.sock
	return func() tea.Msg {
		if err := client.ResetChat(ctx); err != nil {
			return resetMsg{err: err}
		}
		old.Close()

		created, err := client.CreateChat(ctx)
		if err != nil {
			return resetMsg{err: err}
		}
		sock, err := internal.DialSocket(ctx, client.BaseURL, created.ChatID)
		if err != nil {
			return resetMsg{chatID: created.ChatID, err: err}
		}
		return resetMsg{chatID: created.ChatID, sock: sock}
	}
}

// Update handles key input, socket messages, and async results.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 4
		footerHeight := 4
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case socketMsg:
		// Dedup by id: an incoming id already present is dropped.
		m.log.Append(internal.Message(msg))
		m.refreshViewport()
		return m, waitForSocket(m.sock)

	case socketClosedMsg:
		return m, nil

	case memoryMsg:
		if msg.err != nil {
			internal.LogWarn("History check failed: %v", msg.err)
			return m, nil
		}
		m.app.Store.SetHistory(*msg.history)
		m.memoryStored = msg.history.MessageCount > 0
		m.memoryCount = msg.history.MessageCount
		return m, nil

	case resetMsg:
		m.resetting = false
		m.confirmReset = false
		// Store and state DB are only touched here, on the update
		// loop; the command goroutine reported the created id.
		if msg.chatID != "" {
			if err := m.app.AdoptSession(msg.chatID); err != nil {
				internal.LogWarn("Failed to persist new session id: %v", err)
			}
		}
		if msg.err != nil {
			m.errText = fmt.Sprintf("reset failed: %v", msg.err)
			return m, nil
		}
		m.log.Clear()
		m.memoryStored = false
		m.memoryCount = 0
		m.errText = ""
		m.sock = msg.sock
		m.refreshViewport()
		return m, tea.Batch(waitForSocket(m.sock), m.checkMemory())

	case bspinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReset {
		switch msg.String() {
		case "y", "Y":
			if m.resetting {
				return m, nil
			}
			m.resetting = true
			return m, tea.Batch(m.spin.Tick, m.doReset())
		case "n", "N", "esc":
			m.confirmReset = false
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.sock.Close()
		return m, tea.Quit

	case "enter":
		return m.sendQuestion()

	case "ctrl+r":
		m.confirmReset = true
		return m, nil

	case "ctrl+l":
		m.loadMemory()
		return m, nil

	case "ctrl+t":
		theme := "dark"
		if m.app.Theme() == "dark" {
			theme = "light"
		}
		if err := m.app.SetTheme(theme); err != nil {
			internal.LogWarn("Failed to persist theme: %v", err)
		}
		m.styles = NewStyles(theme)
		m.spin.Style = m.styles.Spinner
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendQuestion optimistically appends the user's question to the
// display log before the frame is written, then hands the question to
// the channel adapter. Input stays disabled while an answer is
// pending, which keeps at most one question in flight.
func (m ChatModel) sendQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.sock.Pending() {
		return m, nil
	}

	m.log.Append(internal.Message{
		ID:        "user_" + uuid.NewString(),
		ChatID:    m.app.Store.ChatID(),
		Question:  question,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	m.input.SetValue("")
	m.refreshViewport()

	m.sock.Send(question)
	return m, m.spin.Tick
}

// loadMemory merges the checked history into the display log and
// clears the memory indicator.
func (m *ChatModel) loadMemory() {
	if !m.memoryStored {
		return
	}
	m.log.Prepend(m.app.Store.State().History.Messages)
	m.memoryStored = false
	m.memoryCount = 0
	m.refreshViewport()
}

func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderMessages())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderMessages() string {
	msgs := m.log.Messages()
	if len(msgs) == 0 {
		return m.styles.Empty.Render("No messages yet. Start by asking a question!")
	}

	var b strings.Builder
	for _, msg := range msgs {
		ts := internal.FormatTimestamp(msg.Timestamp)
		if msg.IsQuestion() {
			b.WriteString(m.styles.UserLabel.Render("You") + " " + m.styles.Timestamp.Render(ts) + "\n")
			b.WriteString(m.styles.UserBody.Render(msg.Question) + "\n\n")
		} else {
			b.WriteString(m.styles.BotLabel.Render("Assistant") + " " + m.styles.Timestamp.Render(ts) + "\n")
			b.WriteString(m.styles.BotBody.Render(msg.Answer) + "\n\n")
		}
	}
	return b.String()
}

// View renders the chat panel.
func (m ChatModel) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.confirmReset {
		return m.renderResetOverlay()
	}

	var header strings.Builder
	header.WriteString(m.styles.Header.Render("Chat Q&A"))
	header.WriteString("  " + m.styles.Meta.Render("Chat ID: "+m.app.Store.ChatID()))
	if m.sock.Connected() {
		header.WriteString("  " + m.styles.Connected.Render("● connected"))
	} else {
		header.WriteString("  " + m.styles.Disconnected.Render("○ disconnected"))
	}
	header.WriteString("\n")

	if m.memoryStored {
		banner := fmt.Sprintf("%d messages stored — press ctrl+l to load", m.memoryCount)
		header.WriteString(m.styles.Memory.Render(banner) + "\n")
	}
	if m.errText != "" {
		header.WriteString(m.styles.Error.Render(m.errText) + "\n")
	}

	var footer strings.Builder
	if m.sock.Pending() {
		footer.WriteString(m.spin.View() + " Thinking...\n")
	}
	footer.WriteString(m.input.View() + "\n")
	footer.WriteString(m.styles.Help.Render("enter send · ctrl+l load history · ctrl+r reset · ctrl+t theme · esc quit"))

	return header.String() + "\n" + m.vp.View() + "\n" + footer.String()
}

func (m ChatModel) renderResetOverlay() string {
	var b strings.Builder
	b.WriteString(m.styles.Warning.Render("Reset Chat Session") + "\n\n")
	b.WriteString("This action will clear all messages and create a new chat session.\n")
	b.WriteString("This cannot be undone. Are you sure you want to continue?\n\n")
	if m.resetting {
		b.WriteString(m.spin.View() + " Resetting...\n")
	} else {
		b.WriteString(m.styles.Help.Render("y confirm · n cancel"))
	}
	return b.String()
}
