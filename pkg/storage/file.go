package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GregMSThompson/onboarding/pkg/logger"
)

// FileStore keeps all keys in one JSON object on disk. Writes go through a
// temp file and rename so a crash never leaves a truncated file behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Default resolves <user config dir>/onboarding/session.json, or Nop when
// there is no user config directory (e.g. no HOME in a container).
func Default() Store {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return Nop{}
	}
	return NewFileStore(filepath.Join(dir, "onboarding", "session.json"))
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		logger.FromContext(ctx).Debug("storage read failed", "path", s.path, "error", err)
		return "", false
	}
	v, ok := data[key]
	return v, ok
}

func (s *FileStore) Set(ctx context.Context, key, value string) {
	s.update(ctx, func(data map[string]string) { data[key] = value })
}

func (s *FileStore) Remove(ctx context.Context, key string) {
	s.update(ctx, func(data map[string]string) { delete(data, key) })
}

func (s *FileStore) update(ctx context.Context, fn func(map[string]string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)
	data, err := s.load()
	if err != nil {
		// an unreadable file is replaced rather than blocking every write
		log.Debug("storage read failed, starting fresh", "path", s.path, "error", err)
		data = map[string]string{}
	}
	fn(data)

	if err := s.save(data); err != nil {
		log.Debug("storage write failed", "path", s.path, "error", err)
	}
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
