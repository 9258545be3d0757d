package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	SESSION_DIR  = "ordering"
	SESSION_FILE = "session.json"
)

// FileStore keeps the session as a json file readable only by its owner.
type FileStore struct {
	Path string
}

var _ Store = FileStore{}

// DefaultPath is <user config dir>/ordering/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed finding user config dir with error=%w", err)
	}
	return filepath.Join(dir, SESSION_DIR, SESSION_FILE), nil
}

func (f FileStore) Load() (Data, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("failed reading session file with error=%w", err)
	}
	data := Data{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("failed decoding session file with error=%w", err)
	}
	return data, nil
}

func (f FileStore) Save(data Data) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed creating session dir with error=%w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed encoding session with error=%w", err)
	}
	if err := os.WriteFile(f.Path, raw, 0o600); err != nil {
		return fmt.Errorf("failed writing session file with error=%w", err)
	}
	return nil
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed removing session file with error=%w", err)
	}
	return nil
}
