package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one persisted chat turn. Only text survives a process; anything
// richer in the wire format is transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// Store persists conversation transcripts as one JSON file per session id.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user transcript directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "gpttrace", "sessions"), nil
}

// Load returns the transcript for id, or (nil, nil) when none exists yet.
func (s *Store) Load(id string) ([]Message, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return msgs, nil
}

// Save writes the full transcript for id, creating the store directory as needed.
func (s *Store) Save(id string, msgs []Message) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Append loads the transcript for id, appends msgs, and saves the result.
func (s *Store) Append(id string, msgs ...Message) error {
	existing, err := s.Load(id)
	if err != nil {
		return err
	}
	return s.Save(id, append(existing, msgs...))
}

// path maps a session id to its transcript file. Ids are opaque tokens but
// become filenames here, so anything path-shaped is rejected.
func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", errors.New("session: empty id")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("session: invalid id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}
