// Package output provides formatters for displaying driftwood reports
// in various output formats (pretty, plain, json, yaml, paths, null,
// template).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ScanStats summarizes the traversal behind a report.
type ScanStats struct {
	// FilesScanned is the total number of files examined.
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`

	// DirsScanned is the total number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned" yaml:"dirs_scanned"`

	// Elapsed is the human-readable scan duration.
	Elapsed string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}

// Item is one displayable ignored path.
type Item struct {
	// Path is the root-relative path.
	Path string `json:"path" yaml:"path"`

	// Size is the size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable size (e.g., "1.5 MiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

// DirView is one directory row in a by-directory breakdown.
type DirView struct {
	Dir       string `json:"dir" yaml:"dir"`
	Count     int    `json:"count" yaml:"count"`
	Bytes     int64  `json:"bytes" yaml:"bytes"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

// ListSection is the payload of a list report.
type ListSection struct {
	// Total is the full ignored-file count, independent of sampling.
	Total int `json:"total" yaml:"total"`

	// TotalBytes is the byte total of the ignored set.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`

	// SizeHuman is TotalBytes humanized.
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Dirs is the top-directory breakdown.
	Dirs []DirView `json:"dirs,omitempty" yaml:"dirs,omitempty"`

	// Sample is a bounded listing of ignored paths.
	Sample []Item `json:"sample,omitempty" yaml:"sample,omitempty"`

	// More is how many ignored files exist beyond the sample.
	More int `json:"more,omitempty" yaml:"more,omitempty"`
}

// BucketView is one category row in a classify report.
type BucketView struct {
	Category  string   `json:"category" yaml:"category"`
	Count     int      `json:"count" yaml:"count"`
	Bytes     int64    `json:"bytes" yaml:"bytes"`
	SizeHuman string   `json:"size_human" yaml:"size_human"`
	Sample    []string `json:"sample,omitempty" yaml:"sample,omitempty"`
	More      int      `json:"more,omitempty" yaml:"more,omitempty"`
}

// ClassifySection is the payload of a classify report.
type ClassifySection struct {
	Buckets    []BucketView `json:"buckets" yaml:"buckets"`
	Total      int          `json:"total" yaml:"total"`
	TotalBytes int64        `json:"total_bytes" yaml:"total_bytes"`
	SizeHuman  string       `json:"size_human" yaml:"size_human"`
}

// CandidateView is one row in a cleanup plan.
type CandidateView struct {
	Path      string `json:"path" yaml:"path"`
	IsDir     bool   `json:"is_dir" yaml:"is_dir"`
	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
	Category  string `json:"category" yaml:"category"`
}

// CategoryView is one category row in a plan breakdown.
type CategoryView struct {
	Category  string `json:"category" yaml:"category"`
	Count     int    `json:"count" yaml:"count"`
	Bytes     int64  `json:"bytes" yaml:"bytes"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

// PlanSection is the payload of a cleanup preview.
type PlanSection struct {
	Policy     string          `json:"policy" yaml:"policy"`
	Candidates []CandidateView `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Total      int             `json:"total" yaml:"total"`
	TotalBytes int64           `json:"total_bytes" yaml:"total_bytes"`
	SizeHuman  string          `json:"size_human" yaml:"size_human"`
	ByCategory []CategoryView  `json:"by_category,omitempty" yaml:"by_category,omitempty"`
}

// Failure pairs a path with the reason it could not be deleted.
type Failure struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// CleanSection is the payload of an executed (or dry-run) cleanup.
type CleanSection struct {
	Policy      string    `json:"policy" yaml:"policy"`
	DryRun      bool      `json:"dry_run" yaml:"dry_run"`
	Trashed     bool      `json:"trashed,omitempty" yaml:"trashed,omitempty"`
	Deleted     int       `json:"deleted" yaml:"deleted"`
	Failed      int       `json:"failed" yaml:"failed"`
	FailedPaths []Failure `json:"failed_paths,omitempty" yaml:"failed_paths,omitempty"`
	BytesFreed  int64     `json:"bytes_freed" yaml:"bytes_freed"`
	FreedHuman  string    `json:"freed_human" yaml:"freed_human"`

	// FreeAfter is the filesystem's available space after the run,
	// humanized; empty when the probe is unsupported.
	FreeAfter string `json:"free_after,omitempty" yaml:"free_after,omitempty"`
}

// DriftSection is the payload of a snapshot comparison.
type DriftSection struct {
	Baseline   bool      `json:"baseline" yaml:"baseline"`
	PreviousAt time.Time `json:"previous_at,omitempty" yaml:"previous_at,omitempty"`
	Added      []string  `json:"added,omitempty" yaml:"added,omitempty"`
	Removed    []string  `json:"removed,omitempty" yaml:"removed,omitempty"`
	Unchanged  int       `json:"unchanged" yaml:"unchanged"`
}

// SinceSection is the payload of a threshold drift query.
type SinceSection struct {
	Since time.Time `json:"since" yaml:"since"`
	Paths []string  `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// HistoryEntryView is one journal row.
type HistoryEntryView struct {
	ID        string    `json:"id" yaml:"id"`
	Time      time.Time `json:"time" yaml:"time"`
	Op        string    `json:"op" yaml:"op"`
	Root      string    `json:"root" yaml:"root"`
	Policy    string    `json:"policy,omitempty" yaml:"policy,omitempty"`
	Count     int       `json:"count" yaml:"count"`
	Bytes     int64     `json:"bytes" yaml:"bytes"`
	SizeHuman string    `json:"size_human" yaml:"size_human"`
	Deleted   int       `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Failed    int       `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// HistorySection is the payload of a history listing.
type HistorySection struct {
	Entries []HistoryEntryView `json:"entries,omitempty" yaml:"entries,omitempty"`
	Pruned  int                `json:"pruned,omitempty" yaml:"pruned,omitempty"`
}

// Report is the single model every formatter consumes. Exactly one
// section is set per report; the others stay nil.
type Report struct {
	// Op names the operation that produced the report.
	Op string `json:"op" yaml:"op"`

	// Root is the worktree root the report covers.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Stats summarizes the scan feeding the report.
	Stats ScanStats `json:"stats" yaml:"stats"`

	// Warnings carries non-fatal problems hit along the way.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	List     *ListSection     `json:"list,omitempty" yaml:"list,omitempty"`
	Classify *ClassifySection `json:"classify,omitempty" yaml:"classify,omitempty"`
	Plan     *PlanSection     `json:"plan,omitempty" yaml:"plan,omitempty"`
	Clean    *CleanSection    `json:"clean,omitempty" yaml:"clean,omitempty"`
	Drift    *DriftSection    `json:"drift,omitempty" yaml:"drift,omitempty"`
	Since    *SinceSection    `json:"since,omitempty" yaml:"since,omitempty"`
	History  *HistorySection  `json:"history,omitempty" yaml:"history,omitempty"`
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
