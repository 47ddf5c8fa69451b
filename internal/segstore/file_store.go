package segstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type fileEntry struct {
	ExpiresAt time.Time  `json:"expires_at"`
	Set       SegmentSet `json:"set"`
}

// FileStore keeps one JSON file per segment set under dir, so a diff id
// stays valid across processes without Redis.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create segment store dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid segment set id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Save(_ context.Context, set SegmentSet, ttl time.Duration) error {
	if set.ID == "" {
		return fmt.Errorf("save segment set: missing id")
	}
	path, err := s.path(set.ID)
	if err != nil {
		return fmt.Errorf("save segment set: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now.UTC()
	}
	payload, err := json.Marshal(fileEntry{ExpiresAt: now.Add(ttl).UTC(), Set: set})
	if err != nil {
		return fmt.Errorf("marshal segment set: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, set.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("save segment set: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save segment set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save segment set: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save segment set: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, id string) (SegmentSet, error) {
	path, err := s.path(id)
	if err != nil {
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SegmentSet{}, fmt.Errorf("load segment set: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return SegmentSet{}, fmt.Errorf("unmarshal segment set: %w", err)
	}
	if !s.now().Before(entry.ExpiresAt) {
		_ = os.Remove(path)
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	return entry.Set, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete segment set: %w", err)
	}
	return nil
}
