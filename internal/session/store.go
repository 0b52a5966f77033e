package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kartel/whygo/internal/errors"
)

// FileName is the session file inside the state directory.
const FileName = "session.json"

// FileStore persists a session as JSON in a single file with owner-only
// permissions. Writes are atomic.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore returns a store for {stateDir}/session.json, creating the
// directory if needed.
func NewFileStore(stateDir string) (*FileStore, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: filepath.Join(stateDir, FileName)}, nil
}

// Path returns the session file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Save writes sess, replacing any previous session.
func (fs *FileStore) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.NewSessionError("refusing to save incomplete session", errors.ErrInvalidInput)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.NewSessionError("failed to encode session", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := atomicWriteFile(fs.path, data, 0o600); err != nil {
		return errors.NewSessionError("failed to save session", err).WithPersonID(sess.PersonID)
	}
	return nil
}

// Load reads the persisted session. It returns errors.ErrSessionNotFound
// when there is none and errors.ErrSessionCorrupted when the file cannot be
// decoded or is missing any of the four keys.
func (fs *FileStore) Load() (*Session, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrSessionNotFound
		}
		return nil, errors.NewSessionError("failed to read session", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.NewSessionError("failed to decode session", errors.Join(errors.ErrSessionCorrupted, err))
	}
	if !sess.Valid() {
		return nil, errors.NewSessionError("session is incomplete", errors.ErrSessionCorrupted)
	}
	return &sess, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.NewSessionError("failed to clear session", err)
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the same directory and
// renames it over path, so readers never see a partial session.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
