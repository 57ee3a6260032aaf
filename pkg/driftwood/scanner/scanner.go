package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// gitDir is the metadata directory excluded from every scan.
const gitDir = ".git"

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// Scanner performs parallel directory traversal using fastwalk.
type Scanner struct {
	opts Options

	// Atomic counters for thread-safe progress reporting.
	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	bytesScanned atomic.Int64

	// currentPath is the path currently being scanned (for progress).
	currentPath atomic.Value

	// warnings collects per-entry problems without stopping the walk.
	warnings   []types.ScanWarning
	warningsMu sync.Mutex

	// records collects every discovered entry.
	records   []types.PathRecord
	recordsMu sync.Mutex

	// lastProgress tracks when progress was last reported.
	lastProgress atomic.Int64

	// root is the resolved absolute path being scanned.
	root string
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	_ = opts.Validate()

	s := &Scanner{
		opts:     opts,
		warnings: make([]types.ScanWarning, 0),
		records:  make([]types.PathRecord, 0),
	}
	s.currentPath.Store("")
	return s
}

// Scan walks the root and returns a record for every file and directory
// beneath it. It blocks until the walk completes or the context is
// cancelled. Per-entry errors become warnings on the result; only a
// missing or non-directory root is fatal.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	startTime := time.Now()

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}
	s.root = root

	s.currentPath.Store(root)
	s.reportProgressForce()

	if err := s.executeWalk(ctx); err != nil {
		return nil, err
	}

	s.reportProgressForce()

	return &types.ScanResult{
		Root:         s.root,
		Records:      s.records,
		FilesScanned: s.filesScanned.Load(),
		DirsScanned:  s.dirsScanned.Load(),
		TotalSize:    s.bytesScanned.Load(),
		Elapsed:      time.Since(startTime),
		Warnings:     s.warnings,
	}, nil
}

// validateRoot resolves the root path to absolute and verifies it exists.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}

	rootInfo, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	return root, nil
}

// executeWalk runs fastwalk from the root.
func (s *Scanner) executeWalk(ctx context.Context) error {
	conf := fastwalk.Config{
		Follow:     false, // Never follow symlinks.
		NumWorkers: s.opts.Workers,
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-walkCtx.Done()
		close(done)
	}()

	walkErr := fastwalk.Walk(&conf, s.root, s.walkCallback(done))
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, fastwalk.ErrSkipFiles) {
		return walkErr
	}
	return ctx.Err()
}

// walkCallback returns the callback function for fastwalk.Walk.
func (s *Scanner) walkCallback(done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return fastwalk.ErrSkipFiles
		default:
		}

		// Collect errors and keep walking.
		if err != nil {
			s.addWarning(path, err)
			return nil
		}

		// The root itself produces no record.
		if path == s.root {
			return nil
		}

		// Git metadata never enters the inventory.
		if filepath.Base(path) == gitDir {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		rel := s.relPath(path)
		if s.isExcluded(rel) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			s.processDir(path, rel, d)
			return nil
		}

		if d.Type().IsRegular() {
			s.processFile(path, rel, d)
		}

		return nil
	}
}

// relPath converts an absolute walk path to the slash-relative form.
func (s *Scanner) relPath(path string) string {
	rel := strings.TrimPrefix(path, s.root+string(filepath.Separator))
	return filepath.ToSlash(rel)
}

// processDir records a directory entry.
func (s *Scanner) processDir(path, rel string, d fs.DirEntry) {
	s.dirsScanned.Add(1)
	s.currentPath.Store(path)
	s.reportProgress()

	info, err := d.Info()
	if err != nil {
		s.addWarning(path, err)
		return
	}

	s.addRecord(types.PathRecord{
		RelPath: rel,
		IsDir:   true,
		ModTime: info.ModTime(),
	})
}

// processFile records a regular file entry.
func (s *Scanner) processFile(path, rel string, d fs.DirEntry) {
	info, err := d.Info()
	if err != nil {
		s.addWarning(path, err)
		return
	}

	size := info.Size()
	s.filesScanned.Add(1)
	s.bytesScanned.Add(size)
	s.reportProgress()

	s.addRecord(types.PathRecord{
		RelPath: rel,
		IsDir:   false,
		Size:    size,
		ModTime: info.ModTime(),
	})
}

// addRecord appends a record thread-safely.
func (s *Scanner) addRecord(rec types.PathRecord) {
	s.recordsMu.Lock()
	s.records = append(s.records, rec)
	s.recordsMu.Unlock()
}

// addWarning appends a warning thread-safely.
func (s *Scanner) addWarning(path string, err error) {
	s.warningsMu.Lock()
	s.warnings = append(s.warnings, types.ScanWarning{
		Path:  path,
		Error: err.Error(),
	})
	s.warningsMu.Unlock()
}

// reportProgress calls the progress callback if configured.
// Calls are throttled to avoid excessive overhead.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}

	// Throttle progress updates to every 10ms.
	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine updated it.
	}

	s.sendProgress()
}

// reportProgressForce calls the progress callback immediately, bypassing
// the throttle. Used for scan start and end.
func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress()
}

// sendProgress sends the current progress to the callback.
func (s *Scanner) sendProgress() {
	currentPath, _ := s.currentPath.Load().(string)

	s.opts.OnProgress(types.ScanProgress{
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		BytesScanned: s.bytesScanned.Load(),
		CurrentPath:  currentPath,
	})
}

// isExcluded checks if a relative path matches any exclusion pattern.
func (s *Scanner) isExcluded(rel string) bool {
	for _, pattern := range s.opts.Exclude {
		if matchesExclusionPattern(rel, pattern) {
			return true
		}
	}
	return false
}

// matchesExclusionPattern checks a relative path against one pattern.
func matchesExclusionPattern(rel, pattern string) bool {
	if pattern == "" {
		return false
	}

	// Prefix match covers directory exclusions.
	if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
		return true
	}

	// Glob against the basename.
	if matched, err := filepath.Match(pattern, filepath.Base(rel)); err == nil && matched {
		return true
	}

	// Glob against the relative path.
	if matched, err := filepath.Match(pattern, rel); err == nil && matched {
		return true
	}

	return false
}
