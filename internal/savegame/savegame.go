// Package savegame stores the player state as a single JSON document that is
// replaced atomically on every save.
package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755

	// FormatVersion is bumped whenever the document layout changes incompatibly.
	FormatVersion = 1
)

type document struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"savedAt"`
	Player  model.Player `json:"player"`
}

// Store reads and writes one save file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Open prepares a store at path, creating the parent directory.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("savegame: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("savegame: mkdir: %w", err)
	}
	return &Store{path: path, now: time.Now}, nil
}

// Path returns the save file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes p to a temp file, syncs it and renames it over the save file,
// so a crash leaves either the old or the new save intact.
func (s *Store) Save(ctx context.Context, p model.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(document{
		Version: FormatVersion,
		SavedAt: s.now().UTC(),
		Player:  p,
	})
	if err != nil {
		return fmt.Errorf("savegame: marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, payload)
}

// SnapshotTo copies the current save file to dst. It returns os.ErrNotExist
// when nothing has been saved yet.
func (s *Store) SnapshotTo(dst string) error {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("savegame: snapshot: %w", err)
	}
	return writeAtomic(dst, data)
}

func writeAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("savegame: open tmp: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("savegame: write tmp: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("savegame: sync tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("savegame: close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("savegame: rename: %w", err)
	}
	return nil
}

// Load reads the save file. ok is false when no save exists yet.
func (s *Store) Load() (p model.Player, ok bool, err error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Player{}, false, nil
		}
		return model.Player{}, false, fmt.Errorf("savegame: read: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Player{}, false, fmt.Errorf("savegame: parse %s: %w", s.path, err)
	}
	if doc.Version != FormatVersion {
		return model.Player{}, false, fmt.Errorf("savegame: unsupported version %d", doc.Version)
	}
	if w := doc.Player.CurrentWork; w != nil {
		if err := w.Validate(); err != nil {
			return model.Player{}, false, fmt.Errorf("savegame: %w", err)
		}
	}
	return doc.Player, true, nil
}
