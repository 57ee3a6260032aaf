package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Helper to create a classification with one empty bucket.
func testResult() *classify.Result {
	return &classify.Result{
		Root: "/work/project",
		Buckets: []classify.Bucket{
			{
				Category: "build-artifact",
				Count:    2,
				Bytes:    300,
				Members: []types.PathRecord{
					{RelPath: "build/a.o", Size: 100},
					{RelPath: "build/b.o", Size: 200},
				},
			},
			{Category: "log", Count: 0},
			{
				Category: "other",
				Count:    1,
				Bytes:    50,
				Members: []types.PathRecord{
					{RelPath: "stray.bin", Size: 50},
				},
			},
		},
		Total:      3,
		TotalBytes: 350,
	}
}

func keyPress(m Model, msg tea.KeyMsg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModelSkipsEmptyBuckets(t *testing.T) {
	m := NewModel(Options{Result: testResult()})

	// Two non-empty categories, both collapsed.
	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.rows))
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", m.cursor)
	}
	for _, r := range m.rows {
		if r.member != -1 {
			t.Errorf("expected only category rows, got member row for bucket %d", r.bucket)
		}
	}
}

func TestToggleExpandsAndCollapses(t *testing.T) {
	m := NewModel(Options{Result: testResult()})

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyEnter})
	// build-artifact header + 2 members + other header
	if len(m.rows) != 4 {
		t.Fatalf("expected 4 rows after expand, got %d", len(m.rows))
	}
	if m.rows[1].member != 0 || m.rows[2].member != 1 {
		t.Error("expected member rows directly under the expanded category")
	}

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows after collapse, got %d", len(m.rows))
	}
}

func TestToggleOnMemberCollapsesCategory(t *testing.T) {
	m := NewModel(Options{Result: testResult()})

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = keyPress(m, runeKey('j'))
	if m.rows[m.cursor].member != 0 {
		t.Fatalf("expected cursor on first member, got member %d", m.rows[m.cursor].member)
	}

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 2 {
		t.Fatalf("expected collapse back to 2 rows, got %d", len(m.rows))
	}
	if m.rows[m.cursor].member != -1 || m.rows[m.cursor].bucket != 0 {
		t.Error("expected cursor back on the collapsed category header")
	}
}

func TestNavigationStaysInBounds(t *testing.T) {
	m := NewModel(Options{Result: testResult()})

	m = keyPress(m, runeKey('k'))
	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}

	m = keyPress(m, runeKey('G'))
	if m.cursor != len(m.rows)-1 {
		t.Errorf("expected cursor at last row, got %d", m.cursor)
	}

	m = keyPress(m, runeKey('j'))
	if m.cursor != len(m.rows)-1 {
		t.Errorf("expected cursor to stay at last row, got %d", m.cursor)
	}

	m = keyPress(m, runeKey('g'))
	if m.cursor != 0 {
		t.Errorf("expected cursor back at 0, got %d", m.cursor)
	}
}

func TestViewShowsCategoriesAndTotals(t *testing.T) {
	m := NewModel(Options{Result: testResult()})
	m = keyPress(m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	for _, want := range []string{"driftwood classify", "build-artifact", "other", "build/a.o", "3 ignored files"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "log") {
		t.Error("expected the empty log bucket to be hidden")
	}
}

func TestViewEmptyResult(t *testing.T) {
	m := NewModel(Options{Result: &classify.Result{Root: "/w"}})

	view := m.View()
	if !strings.Contains(view, "No ignored files.") {
		t.Error("expected empty state message")
	}
}

func TestWindowResizeAdjustsDimensions(t *testing.T) {
	m := NewModel(Options{Result: testResult()})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.width, m.height)
	}
}
