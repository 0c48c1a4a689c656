package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SessionCache is the file-system fallback for local runs without a
// database. One JSON file per session under the cache directory.
type SessionCache struct {
	dir string
}

// NewSessionCache creates the cache directory if needed. An empty dir
// defaults to .cache/qa/sessions.
func NewSessionCache(dir string) *SessionCache {
	if dir == "" {
		dir = filepath.Join(".cache", "qa", "sessions")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("[WARNING] Check SessionCache dir: %v\n", err)
	}
	return &SessionCache{dir: dir}
}

func (c *SessionCache) path(id string) string {
	// Session IDs are UUIDs but sanitize anyway.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
	return filepath.Join(c.dir, safe+".json")
}

// Save writes the session to its file.
func (c *SessionCache) Save(session *QASession) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(c.path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads a session back, nil when absent.
func (c *SessionCache) Load(id string) (*QASession, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session QASession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session file: %w", err)
	}
	return &session, nil
}
