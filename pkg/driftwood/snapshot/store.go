// Package snapshot persists the ignored-path set of a worktree between
// runs. Each worktree gets one JSON file, named after a hash of its
// absolute root, replaced atomically on every write and guarded by a
// file lock so concurrent runs against the same worktree serialize.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Sentinel errors distinguishing the two kinds of unusable snapshot.
var (
	// ErrNoSnapshot means no snapshot has been recorded for the root.
	ErrNoSnapshot = errors.New("no snapshot")

	// ErrCorrupt means a snapshot file exists but cannot be trusted.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Store reads and writes per-worktree snapshots under one directory.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a Store rooted at dir. The directory is created on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir, logger: logging.Get("snapshot")}
}

// PathFor returns the snapshot file path for a worktree root. The name
// is derived from a hash of the absolute root so any root maps to a
// valid, stable filename.
func (s *Store) PathFor(root string) string {
	sum := sha256.Sum256([]byte(root))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:8])+".json")
}

// Load reads the snapshot for root. Absent files return ErrNoSnapshot;
// undecodable files, or files recorded for a different root (hash
// collision, relocated store), return ErrCorrupt.
func (s *Store) Load(root string) (*types.Snapshot, error) {
	path := s.PathFor(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, root)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if snap.Root != root {
		return nil, fmt.Errorf("%w: %s records root %q", ErrCorrupt, path, snap.Root)
	}
	return &snap, nil
}

// Save writes the snapshot atomically, replacing any previous one for
// the same root. Readers never observe a partial file.
func (s *Store) Save(snap *types.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := s.PathFor(snap.Root)
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Debug("snapshot saved", "root", snap.Root, "paths", len(snap.Paths))
	return nil
}

// Delete removes the snapshot for root. Removing a snapshot that does
// not exist is not an error.
func (s *Store) Delete(root string) error {
	err := os.Remove(s.PathFor(root))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// WithLock runs fn while holding an exclusive advisory lock for the
// root's snapshot. Concurrent checks of the same worktree, in this
// process or another, run their read-modify-write cycles one at a time.
func (s *Store) WithLock(root string, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	lock := flock.New(s.PathFor(root) + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock snapshot for %s: %w", root, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("unlock snapshot", "root", root, "error", err)
		}
	}()

	return fn()
}

// atomicWrite lands data at path via a temp file and rename in the same
// directory, so the rename stays on one filesystem.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	tmp = nil
	return nil
}
