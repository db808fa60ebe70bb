package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheManager stores fetched chat histories on disk so history and
// export can run against a session without refetching it. One JSON
// file per session plus a YAML index.
type CacheManager struct {
	cacheDir string
}

// TranscriptIndexEntry represents a cached session in the index.
type TranscriptIndexEntry struct {
	ChatID       string    `yaml:"chat_id"`
	MessageCount int       `yaml:"message_count"`
	FetchedAt    time.Time `yaml:"fetched_at"`
}

// TranscriptIndex is the YAML index of all cached sessions.
type TranscriptIndex struct {
	Sessions []TranscriptIndexEntry `yaml:"sessions"`
}

// NewCacheManager creates a cache manager rooted at cacheDir.
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir}
}

// EnsureCacheDir ensures the cache directory exists.
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetIndexPath returns the path to the transcript index YAML file.
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "transcripts.yaml")
}

// GetTranscriptPath returns the cache file path for a session.
func (cm *CacheManager) GetTranscriptPath(chatID string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("chat_%s.json", chatID))
}

// SaveTranscript writes one fetched history to the cache and updates
// the index entry for its session.
func (cm *CacheManager) SaveTranscript(history *ChatHistory) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(cm.GetTranscriptPath(history.ChatID), data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	index, err := cm.LoadIndex()
	if err != nil {
		index = &TranscriptIndex{}
	}

	entry := TranscriptIndexEntry{
		ChatID:       history.ChatID,
		MessageCount: history.MessageCount,
		FetchedAt:    time.Now().UTC(),
	}
	replaced := false
	for i, existing := range index.Sessions {
		if existing.ChatID == history.ChatID {
			index.Sessions[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		index.Sessions = append(index.Sessions, entry)
	}

	return cm.SaveIndex(index)
}

// LoadTranscript loads one cached history. Returns os.ErrNotExist
// (wrapped) when the session was never cached.
func (cm *CacheManager) LoadTranscript(chatID string) (*ChatHistory, error) {
	data, err := os.ReadFile(cm.GetTranscriptPath(chatID))
	if err != nil {
		return nil, err
	}

	var history ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse cached transcript: %w", err)
	}
	return &history, nil
}

// LoadIndex loads the transcript index.
func (cm *CacheManager) LoadIndex() (*TranscriptIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index TranscriptIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return &index, nil
}

// SaveIndex saves the transcript index.
func (cm *CacheManager) SaveIndex(index *TranscriptIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(cm.GetIndexPath(), data, 0644)
}

// ClearCache removes all cached transcripts and the index.
func (cm *CacheManager) ClearCache() error {
	if err := os.RemoveAll(cm.cacheDir); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
