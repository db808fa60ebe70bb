package internal

import (
	"context"
	"fmt"
	"path/filepath"
)

// App bundles the long-lived collaborators every view needs: config,
// the HTTP facade, the session store, the durable state DB, and the
// transcript cache. It is constructed once per invocation and passed
// by reference into commands instead of living as package state.
type App struct {
	Config *Config
	Client *Client
	Store  *SessionStore
	State  *StateDB
	Cache  *CacheManager

	configDir string
}

// NewApp wires an App from the config directory and server URL. The
// active session id is read from the state DB; a missing key means no
// active session.
func NewApp(configDir, serverURL string) (*App, error) {
	cfg, err := LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	state, err := OpenStateDB(configDir)
	if err != nil {
		return nil, err
	}

	chatID, err := state.Get(StateKeyChatID)
	if err != nil {
		state.Close()
		return nil, err
	}

	if serverURL == "" {
		serverURL = ResolveServerURL("", cfg)
	}

	return &App{
		Config:    cfg,
		Client:    NewClient(serverURL),
		Store:     NewSessionStore(chatID),
		State:     state,
		Cache:     NewCacheManager(filepath.Join(configDir, "cache")),
		configDir: configDir,
	}, nil
}

// Close releases the App's resources.
func (a *App) Close() error {
	return a.State.Close()
}

// EnsureSession returns the active chat id, creating a session first
// when none is stored. A freshly created id is persisted before it is
// returned.
func (a *App) EnsureSession(ctx context.Context) (string, error) {
	if id := a.Store.ChatID(); id != "" {
		return id, nil
	}

	created, err := a.Client.CreateChat(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create chat session: %w", err)
	}

	a.Store.SetChatID(created.ChatID)
	if err := a.State.Set(StateKeyChatID, created.ChatID); err != nil {
		return "", err
	}
	return created.ChatID, nil
}

// AdoptSession replaces the active session with a freshly created id,
// emptying the held history and persisting the new id. Callers that
// run network work off the UI goroutine use this to apply the store
// mutation back on it.
func (a *App) AdoptSession(id string) error {
	a.Store.ClearChatID()
	a.Store.SetChatID(id)
	return a.State.Set(StateKeyChatID, id)
}

// ClearSession clears the active session id from the store and erases
// the persisted copy.
func (a *App) ClearSession() error {
	a.Store.ClearChatID()
	return a.State.Delete(StateKeyChatID)
}

// Theme returns the persisted theme preference, falling back to the
// config file and then to dark.
func (a *App) Theme() string {
	if theme, err := a.State.Get(StateKeyTheme); err == nil && theme != "" {
		return theme
	}
	if a.Config.Theme != "" {
		return a.Config.Theme
	}
	return "dark"
}

// SetTheme persists the theme preference.
func (a *App) SetTheme(theme string) error {
	return a.State.Set(StateKeyTheme, theme)
}
