// Package trash routes removals through the system trash where one
// exists, so a cleanup can still be undone from the desktop. Platforms
// without a usable trash fall back to permanent deletion.
package trash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// toolTimeout bounds every external trash command.
const toolTimeout = 30 * time.Second

// Move sends a file or directory to the system trash. Finder handles it
// on macOS and the gio or trash-put tools on Linux; everywhere else,
// and whenever no tool succeeds, the path is removed permanently.
func Move(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("trash %q: %w", path, err)
	}

	// Trash tools resolve paths relative to their own working
	// directory, so hand them an absolute one.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("trash %q: %w", path, err)
	}

	switch runtime.GOOS {
	case "darwin":
		return finderTrash(abs)
	case "linux":
		return xdgTrash(abs)
	default:
		return removePermanently(abs)
	}
}

// finderTrash asks Finder to trash the path. Going through Finder keeps
// the Put Back metadata a bare rename into ~/.Trash would lose.
func finderTrash(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return removePermanently(path)
	}
	return nil
}

// xdgTrash tries the desktop trash tools in order. gio covers GNOME and
// most GTK desktops; trash-put is the cross-desktop XDG fallback.
func xdgTrash(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	for _, tool := range [][]string{{"gio", "trash"}, {"trash-put"}} {
		bin, err := exec.LookPath(tool[0])
		if err != nil {
			continue
		}
		args := append(tool[1:], path)
		if exec.CommandContext(ctx, bin, args...).Run() == nil {
			return nil
		}
	}

	return removePermanently(path)
}

// removePermanently deletes the path outright. RemoveAll covers both
// files and directories.
func removePermanently(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}
