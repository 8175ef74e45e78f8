// internal/auth/session.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "prospect-cli"
	// FallbackDir is the directory for file-based session storage (when keyring fails)
	FallbackDir = ".prospect/sessions"
	// DefaultSessionName is used when no session name is given
	DefaultSessionName = "default"

	manifestKey = "_manifest"
)

// ErrSessionExpired is returned by LoadSession when the stored session has
// passed its expiry time.
var ErrSessionExpired = errors.New("session expired")

// SessionData represents a stored login session for the professional network.
type SessionData struct {
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Cookies   []Cookie          `json:"cookies"`
	Headers   map[string]string `json:"headers,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at,omitempty"`
}

// Cookie represents a browser cookie
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// vault abstracts where session blobs live: the OS keyring when it works,
// a 0600 file directory otherwise.
type vault interface {
	write(name string, data []byte) error
	read(name string) ([]byte, error)
	remove(name string) error
	names() ([]string, error)
}

var (
	vaultOnce   sync.Once
	activeVault vault
)

// currentVault probes the keyring once per process. Codespaces and CI have
// no usable keyring daemon, so skip straight to files there.
func currentVault() vault {
	vaultOnce.Do(func() {
		if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
			activeVault = fileVault{}
			return
		}
		probe := "_test_keyring_access_"
		if err := keyring.Set(KeyringService, probe, "test"); err != nil {
			activeVault = fileVault{}
			return
		}
		keyring.Delete(KeyringService, probe)
		activeVault = keyringVault{}
	})
	return activeVault
}

// keyringVault stores sessions in the OS keyring. Keyring backends cannot
// enumerate keys, so it keeps a manifest entry listing session names.
type keyringVault struct{}

func (keyringVault) write(name string, data []byte) error {
	if err := keyring.Set(KeyringService, name, string(data)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return addToManifest(name)
}

func (keyringVault) read(name string) ([]byte, error) {
	data, err := keyring.Get(KeyringService, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from keyring: %w", err)
	}
	return []byte(data), nil
}

func (keyringVault) remove(name string) error {
	if err := keyring.Delete(KeyringService, name); err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return removeFromManifest(name)
}

func (keyringVault) names() ([]string, error) {
	raw, err := keyring.Get(KeyringService, manifestKey)
	if err != nil {
		return []string{}, nil
	}
	var sessions []string
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}
	return sessions, nil
}

func addToManifest(name string) error {
	sessions, _ := keyringVault{}.names()
	for _, s := range sessions {
		if s == name {
			return nil
		}
	}
	return writeManifest(append(sessions, name))
}

func removeFromManifest(name string) error {
	sessions, _ := keyringVault{}.names()
	kept := sessions[:0]
	for _, s := range sessions {
		if s != name {
			kept = append(kept, s)
		}
	}
	return writeManifest(kept)
}

func writeManifest(sessions []string) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return keyring.Set(KeyringService, manifestKey, string(data))
}

// fileVault stores sessions as JSON files under ~/.prospect/sessions.
type fileVault struct{}

func (fileVault) dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, FallbackDir)
	return dir, os.MkdirAll(dir, 0700)
}

func (v fileVault) path(name string) (string, error) {
	dir, err := v.dir()
	if err != nil {
		return "", fmt.Errorf("failed to get session path: %w", err)
	}
	return filepath.Join(dir, name+".json"), nil
}

func (v fileVault) write(name string, data []byte) error {
	path, err := v.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session file: %w", err)
	}
	return nil
}

func (v fileVault) read(name string) ([]byte, error) {
	path, err := v.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load session file: %w", err)
	}
	return data, nil
}

func (v fileVault) remove(name string) error {
	path, err := v.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

func (v fileVault) names() ([]string, error) {
	dir, err := v.dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var sessions []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return sessions, nil
}

// SaveSession persists a session under its name.
func SaveSession(session *SessionData) error {
	if session.Name == "" {
		return fmt.Errorf("session name cannot be empty")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return currentVault().write(session.Name, data)
}

// LoadSession retrieves a session by name, defaulting to DefaultSessionName.
// Expired sessions fail with ErrSessionExpired.
func LoadSession(name string) (*SessionData, error) {
	if name == "" {
		name = DefaultSessionName
	}
	data, err := currentVault().read(name)
	if err != nil {
		return nil, err
	}
	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}
	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// DeleteSession removes a session by name.
func DeleteSession(name string) error {
	if name == "" {
		return fmt.Errorf("session name cannot be empty")
	}
	return currentVault().remove(name)
}

// ListSessions returns the names of all stored sessions.
func ListSessions() ([]string, error) {
	return currentVault().names()
}
