package gitindex

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner answers canned git invocations without a real repository.
type fakeRunner struct {
	responses map[string][]byte
	err       error
	calls     []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if f.err != nil {
		return nil, f.err
	}
	out, ok := f.responses[key]
	if !ok {
		return nil, errors.New("unexpected command: " + key)
	}
	return out, nil
}

func TestWorktree(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string][]byte{
			"git rev-parse --show-toplevel": []byte("/home/user/project\n"),
		},
	}

	oracle := New(runner)
	root, err := oracle.Worktree(context.Background(), "/home/user/project/sub")
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}
	if root != "/home/user/project" {
		t.Errorf("Worktree() = %q, want %q", root, "/home/user/project")
	}
}

func TestWorktreeNotARepo(t *testing.T) {
	runner := &fakeRunner{err: errors.New("fatal: not a git repository")}

	oracle := New(runner)
	_, err := oracle.Worktree(context.Background(), "/tmp/nowhere")
	if err == nil {
		t.Fatal("Worktree() expected error, got nil")
	}
	if !errors.Is(err, ErrNotWorktree) {
		t.Errorf("Worktree() error = %v, want ErrNotWorktree", err)
	}
}

func TestTrackedParsesNulSeparatedOutput(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string][]byte{
			"git ls-files -z": []byte("main.go\x00docs/readme.md\x00name with space.txt\x00"),
		},
	}

	oracle := New(runner)
	set, err := oracle.Tracked(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("Tracked() error = %v", err)
	}

	if set.Len() != 3 {
		t.Errorf("Tracked() Len = %d, want 3", set.Len())
	}
	for _, p := range []string{"main.go", "docs/readme.md", "name with space.txt"} {
		if !set.Has(p) {
			t.Errorf("Tracked() missing %q", p)
		}
	}
}

func TestUntrackedEmptyOutput(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string][]byte{
			"git ls-files --others --exclude-standard -z": {},
		},
	}

	oracle := New(runner)
	set, err := oracle.Untracked(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("Untracked() error = %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("Untracked() Len = %d, want 0", set.Len())
	}
}

func TestQueriesAreWholeSet(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string][]byte{
			"git ls-files -z":                             []byte("a\x00b\x00"),
			"git ls-files --others --exclude-standard -z": []byte("c\x00"),
		},
	}

	oracle := New(runner)
	if _, err := oracle.Tracked(context.Background(), "/repo"); err != nil {
		t.Fatalf("Tracked() error = %v", err)
	}
	if _, err := oracle.Untracked(context.Background(), "/repo"); err != nil {
		t.Fatalf("Untracked() error = %v", err)
	}

	// One git invocation per set, regardless of how many paths exist.
	if len(runner.calls) != 2 {
		t.Errorf("git invoked %d times, want 2: %v", len(runner.calls), runner.calls)
	}
}
