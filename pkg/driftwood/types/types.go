// Package types provides core data types for the driftwood ignored-file
// inventory tool. It includes the path records produced by scanning, the
// path sets used for git membership arithmetic, cleanup and drift results,
// and utility functions for formatting sizes.
package types

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// PathRecord describes a single filesystem entry discovered under a
// worktree root. Paths are relative to the root and use forward slashes
// on every platform.
type PathRecord struct {
	// RelPath is the slash-separated path relative to the worktree root.
	RelPath string `json:"rel_path"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`

	// Size is the file size in bytes (0 for directories).
	Size int64 `json:"size"`

	// ModTime is the last modification time of the entry.
	ModTime time.Time `json:"mod_time"`
}

// HumanSize returns the record size formatted as a human-readable string.
func (r *PathRecord) HumanSize() string {
	return FormatSize(r.Size)
}

// ScanWarning records a non-fatal problem encountered during scanning.
// It pairs a path with the error message for reporting.
type ScanWarning struct {
	// Path is the file or directory where the problem occurred.
	Path string `json:"path"`

	// Error is the message describing what went wrong.
	Error string `json:"error"`
}

// ScanResult contains everything a traversal of a worktree produced.
type ScanResult struct {
	// Root is the resolved absolute path that was scanned.
	Root string `json:"root"`

	// Records contains every file and directory found under the root,
	// excluding git metadata directories.
	Records []PathRecord `json:"records"`

	// FilesScanned is the number of regular files examined.
	FilesScanned int64 `json:"files_scanned"`

	// DirsScanned is the number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned"`

	// TotalSize is the sum of all file sizes in bytes.
	TotalSize int64 `json:"total_size"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed"`

	// Warnings contains non-fatal problems hit during the scan.
	Warnings []ScanWarning `json:"warnings,omitempty"`
}

// ScanProgress reports real-time scan progress.
type ScanProgress struct {
	// DirsScanned is the number of directories processed so far.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of files examined so far.
	FilesScanned int64 `json:"files_scanned"`

	// BytesScanned is the total bytes of all files examined so far.
	BytesScanned int64 `json:"bytes_scanned"`

	// CurrentPath is the path currently being scanned.
	CurrentPath string `json:"current_path"`
}

// CleanupCandidate is a single deletable entry selected by a cleanup policy.
// A directory candidate stands for the entire subtree beneath it.
type CleanupCandidate struct {
	// RelPath is the slash-separated path relative to the worktree root.
	RelPath string `json:"rel_path"`

	// IsDir reports whether the candidate is deleted recursively.
	IsDir bool `json:"is_dir"`

	// Size is the reclaimable size in bytes. For directories it is the
	// sum of the ignored files beneath.
	Size int64 `json:"size"`

	// Category is the classification of the candidate.
	Category Category `json:"category"`
}

// CleanupResult summarizes an executed cleanup run.
type CleanupResult struct {
	// Deleted is the number of candidates successfully removed.
	Deleted int `json:"deleted"`

	// Failed is the number of candidates that could not be removed.
	Failed int `json:"failed"`

	// FailedPaths lists the relative paths that failed, with reasons.
	FailedPaths []ScanWarning `json:"failed_paths,omitempty"`

	// RemovedPaths lists the relative paths actually removed, in
	// deletion order. Dry runs leave it empty.
	RemovedPaths []string `json:"removed_paths,omitempty"`

	// BytesFreed is the total size of successfully removed candidates.
	BytesFreed int64 `json:"bytes_freed"`

	// DryRun reports whether the run was a preview that deleted nothing.
	DryRun bool `json:"dry_run"`

	// Trashed reports whether removals went to the system trash
	// instead of being deleted permanently.
	Trashed bool `json:"trashed,omitempty"`
}

// Snapshot is the persisted record of a worktree's ignored file set at a
// point in time. It is written whole and replaced whole on every tracked
// drift check.
type Snapshot struct {
	// CapturedAt is when the snapshot was taken.
	CapturedAt time.Time `json:"captured_at"`

	// Root is the absolute worktree root the snapshot belongs to.
	Root string `json:"root"`

	// Paths holds the sorted relative paths of all ignored files.
	Paths []string `json:"paths"`
}

// DriftReport describes how the ignored set changed between the previous
// snapshot and the current run.
type DriftReport struct {
	// Root is the absolute worktree root the report covers.
	Root string `json:"root"`

	// Baseline reports that no previous snapshot existed and the current
	// state was recorded as the new baseline.
	Baseline bool `json:"baseline"`

	// PreviousAt is when the compared snapshot was captured.
	// Zero when Baseline is true.
	PreviousAt time.Time `json:"previous_at,omitempty"`

	// Added lists paths present now but absent from the snapshot.
	Added []string `json:"added,omitempty"`

	// Removed lists paths present in the snapshot but absent now.
	Removed []string `json:"removed,omitempty"`

	// Unchanged is the number of paths present in both.
	Unchanged int `json:"unchanged"`
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
