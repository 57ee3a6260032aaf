package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Icons for expandable category rows.
const (
	iconExpanded  = "▼" // Black down-pointing triangle
	iconCollapsed = "▶" // Black right-pointing triangle
)

// Options configures the browser.
type Options struct {
	// Result is the classification to browse.
	Result *classify.Result

	// Stats is the scan behind the classification, for the header.
	Stats *types.ScanResult
}

// keyMap defines the browser keybindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Top    key.Binding
	Bottom key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// row addresses one visible line: a category header, or one member of
// an expanded category.
type row struct {
	bucket int // index into Result.Buckets
	member int // index into the bucket's members, -1 for the header
}

// Model is the Bubble Tea model for the category browser.
type Model struct {
	result   *classify.Result
	stats    *types.ScanResult
	keys     keyMap
	help     help.Model
	rows     []row
	expanded map[int]bool
	cursor   int
	offset   int
	width    int
	height   int
}

// NewModel creates a browser model for a classification result.
func NewModel(opts Options) Model {
	m := Model{
		result:   opts.Result,
		stats:    opts.Stats,
		keys:     defaultKeyMap(),
		help:     help.New(),
		expanded: make(map[int]bool),
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows from the expansion state. Empty
// buckets never produce rows.
func (m *Model) refresh() {
	m.rows = m.rows[:0]
	for i, b := range m.result.Buckets {
		if b.Count == 0 {
			continue
		}
		m.rows = append(m.rows, row{bucket: i, member: -1})
		if !m.expanded[i] {
			continue
		}
		for j := range b.Members {
			m.rows = append(m.rows, row{bucket: i, member: j})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Top):
			m.cursor = 0

		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.rows) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}

		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		}
		m.ensureVisible()
		return m, nil
	}

	return m, nil
}

// toggle expands or collapses the category under the cursor. On a
// member row it collapses the enclosing category.
func (m *Model) toggle() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	b := m.rows[m.cursor].bucket
	m.expanded[b] = !m.expanded[b]
	m.refresh()

	// Keep the cursor on the category header after a collapse.
	for i, r := range m.rows {
		if r.bucket == b && r.member == -1 {
			if m.rows[m.cursor].bucket != b {
				m.cursor = i
			}
			break
		}
	}
}

// visibleRows returns how many list rows fit under the chrome.
func (m *Model) visibleRows() int {
	// Header takes 4 lines, footer 2.
	v := m.height - 6
	if v < 1 {
		v = 1
	}
	return v
}

// ensureVisible adjusts the scroll offset to keep the cursor on screen.
func (m *Model) ensureVisible() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	contentWidth := m.width - 2

	// Header
	b.WriteString(titleStyle.Render("  driftwood classify"))
	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render("  " + truncatePath(m.result.Root, contentWidth-2)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %d ignored files, %s",
		m.result.Total, types.FormatSize(m.result.TotalBytes)))
	if m.stats != nil {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  (scanned %d files in %d dirs)",
			m.stats.FilesScanned, m.stats.DirsScanned)))
	}
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Rows
	if len(m.rows) == 0 {
		b.WriteString(mutedTextStyle.Render("  No ignored files."))
		b.WriteString("\n")
	} else {
		visible := m.visibleRows()
		for i := m.offset; i < m.offset+visible && i < len(m.rows); i++ {
			b.WriteString(m.renderRow(i, contentWidth))
			b.WriteString("\n")
		}
	}

	// Footer
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys))

	return b.String()
}

// renderRow renders one visible row.
func (m Model) renderRow(i, width int) string {
	r := m.rows[i]
	bucket := m.result.Buckets[r.bucket]

	var left, right string
	if r.member == -1 {
		icon := iconCollapsed
		if m.expanded[r.bucket] {
			icon = iconExpanded
		}
		left = fmt.Sprintf("  %s %s", icon, bucket.Category)
		right = fmt.Sprintf("%d files  %s", bucket.Count, types.FormatSize(bucket.Bytes))
	} else {
		rec := bucket.Members[r.member]
		left = "      " + truncatePath(rec.RelPath, width-20)
		right = types.FormatSize(rec.Size)
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}

	// The highlight style owns the whole cursor row; colors go only on
	// non-cursor rows so the background stays unbroken.
	if i == m.cursor {
		return selectedRowStyle.Width(width).Render(left + strings.Repeat(" ", pad) + right)
	}

	if r.member == -1 {
		icon := iconCollapsed
		if m.expanded[r.bucket] {
			icon = iconExpanded
		}
		left = fmt.Sprintf("  %s %s", icon, categoryStyle.Render(string(bucket.Category)))
	}
	return normalRowStyle.Width(width).Render(left + strings.Repeat(" ", pad) + sizeStyle.Render(right))
}

// Run starts the browser and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
