package atp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SavedSession holds the tokens needed to resume a session across runs.
type SavedSession struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	DID        string `json:"did"`
	Handle     string `json:"handle"`
}

// LoadSession reads a previously saved session. A missing or unreadable file
// yields the zero value; the caller falls back to a fresh login.
func LoadSession(path string) SavedSession {
	data, err := os.ReadFile(path)
	if err != nil {
		return SavedSession{}
	}
	var s SavedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return SavedSession{}
	}
	return s
}

// SaveSession persists session tokens, creating the directory as needed.
// Tokens grant account access, so the file is written user-only.
func SaveSession(path string, s SavedSession) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// ClearSession removes the saved session file if present.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
