package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manifest reads and writes deletion records in one directory. Each
// entry lives in its own file named after the entry ID.
type Manifest struct {
	dir string
	mu  sync.Mutex
}

// New creates a Manifest over the given directory. The directory is
// created lazily on the first write.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir}, nil
}

// Record writes a new entry for a cleanup run and returns it with the
// generated ID filled in.
func (m *Manifest) Record(root, policy string, trashed bool, files []FileRecord) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.Size
	}

	entry := &Entry{
		ID:        newID(),
		Timestamp: time.Now().UTC(),
		Root:      root,
		Policy:    policy,
		Trashed:   trashed,
		Files:     files,
		Summary: Summary{
			TotalFiles: int64(len(files)),
			TotalBytes: totalBytes,
		},
	}

	if err := m.write(entry); err != nil {
		return nil, fmt.Errorf("write manifest entry: %w", err)
	}
	return entry, nil
}

// List returns entries newest first. A limit of zero or less returns
// everything. Files that fail to parse are skipped.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, err := m.entryFiles()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entry, err := m.read(name)
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ErrNotFound marks a manifest lookup for an ID with no entry.
var ErrNotFound = errors.New("manifest entry not found")

// Get retrieves one entry by ID. The ID doubles as the filename, so the
// lookup is a direct read.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid manifest id %q", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.read(id + ".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return entry, nil
}

// Prune removes entries recorded before the cutoff and returns how many
// were deleted.
func (m *Manifest) Prune(before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, err := m.entryFiles()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, name := range names {
		entry, err := m.read(name)
		if err != nil {
			continue
		}
		if !entry.Timestamp.Before(before) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			return pruned, fmt.Errorf("prune manifest entry: %w", err)
		}
		pruned++
	}
	return pruned, nil
}

// entryFiles lists the entry filenames in the manifest directory.
// A missing directory reads as empty.
func (m *Manifest) entryFiles() ([]string, error) {
	dirents, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest directory: %w", err)
	}

	var names []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

// write persists an entry atomically via a temp file and rename.
func (m *Manifest) write(entry *Entry) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	path := filepath.Join(m.dir, entry.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// read loads and parses one entry file.
func (m *Manifest) read(name string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal entry %s: %w", name, err)
	}
	return &entry, nil
}

// newID builds an entry ID that sorts chronologically by filename and
// stays unique within the second.
func newID() string {
	ts := time.Now().UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("clean-%s-%s", ts, uuid.NewString()[:8])
}
