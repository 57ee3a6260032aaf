// Package manifest persists per-run deletion records as JSON files,
// one per cleanup. The journal keeps run summaries; manifests keep the
// exact file lists, so "what did that clean remove" stays answerable
// after the files are gone.
package manifest

import "time"

// Entry is the record of one cleanup run.
type Entry struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Root      string       `json:"root"`
	Policy    string       `json:"policy"`
	Trashed   bool         `json:"trashed,omitempty"`
	Files     []FileRecord `json:"files"`
	Summary   Summary      `json:"summary"`
}

// FileRecord is one removed path.
type FileRecord struct {
	// Path is the path relative to the worktree root. Directory
	// records stand for everything that was beneath them.
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	IsDir    bool   `json:"is_dir,omitempty"`
	Category string `json:"category,omitempty"`
}

// Summary totals the removed files.
type Summary struct {
	TotalFiles int64 `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
}
