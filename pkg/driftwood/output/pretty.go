package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// PrettyFormatter formats reports with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	switch {
	case r.List != nil:
		w.WriteString(f.formatList(r.List))
	case r.Classify != nil:
		w.WriteString(f.formatClassify(r.Classify))
	case r.Plan != nil:
		w.WriteString(f.formatPlan(r.Plan))
	case r.Clean != nil:
		w.WriteString(f.formatClean(r.Clean))
	case r.Drift != nil:
		w.WriteString(f.formatDrift(r.Drift))
	case r.Since != nil:
		w.WriteString(f.formatSince(r.Since))
	case r.History != nil:
		w.WriteString(f.formatHistory(r.History))
	}

	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with worktree metadata.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	title := TitleStyle.Render("driftwood " + r.Op)
	lines = append(lines, title)

	if r.Root != "" {
		lines = append(lines, fmt.Sprintf("%s %s",
			LabelStyle.Render("Root:"), ValueStyle.Render(r.Root)))
	}

	if r.Stats.FilesScanned > 0 || r.Stats.DirsScanned > 0 {
		scanned := fmt.Sprintf("%d files, %d dirs", r.Stats.FilesScanned, r.Stats.DirsScanned)
		if r.Stats.Elapsed != "" {
			scanned += " in " + r.Stats.Elapsed
		}
		lines = append(lines, fmt.Sprintf("%s %s",
			LabelStyle.Render("Scanned:"), ValueStyle.Render(scanned)))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatList builds the directory breakdown and the bounded sample.
func (f *PrettyFormatter) formatList(s *ListSection) string {
	if s.Total == 0 {
		return MutedStyle.Render("  No ignored files found\n")
	}

	var sb strings.Builder

	if len(s.Dirs) > 0 {
		sb.WriteString("  " + TableHeaderStyle.Render("TOP DIRECTORIES") + "\n")
		width := 0
		for _, d := range s.Dirs {
			if len(d.SizeHuman) > width {
				width = len(d.SizeHuman)
			}
		}
		for _, d := range s.Dirs {
			sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				ValueStyle.Render(fmt.Sprintf("%5d", d.Count)),
				SizeStyle.Render(padLeft(d.SizeHuman, width)),
				PathStyle.Render(d.Dir)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(f.formatItems(s.Sample, s.More))
	return sb.String()
}

// formatItems renders SIZE PATH rows plus a trailing overflow notice.
func (f *PrettyFormatter) formatItems(items []Item, more int) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SIZE", sizeWidth(items))),
		TableHeaderStyle.Render("PATH")))

	width := sizeWidth(items)
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			SizeStyle.Render(padLeft(it.SizeHuman, width)),
			PathStyle.Render(it.Path)))
	}
	if more > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more\n", more)))
	}
	return sb.String()
}

// formatClassify builds the per-category table with samples.
func (f *PrettyFormatter) formatClassify(s *ClassifySection) string {
	if s.Total == 0 {
		return MutedStyle.Render("  No ignored files to classify\n")
	}

	var sb strings.Builder
	catWidth, sizeW := 0, 0
	for _, b := range s.Buckets {
		if len(b.Category) > catWidth {
			catWidth = len(b.Category)
		}
		if len(b.SizeHuman) > sizeW {
			sizeW = len(b.SizeHuman)
		}
	}

	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		TableHeaderStyle.Render(padRight("CATEGORY", catWidth)),
		TableHeaderStyle.Render(padLeft("COUNT", 5)),
		TableHeaderStyle.Render(padLeft("SIZE", sizeW))))

	for _, b := range s.Buckets {
		if b.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			CategoryStyle.Render(padRight(b.Category, catWidth)),
			ValueStyle.Render(padLeft(fmt.Sprintf("%d", b.Count), 5)),
			SizeStyle.Render(padLeft(b.SizeHuman, sizeW))))
		for _, p := range b.Sample {
			sb.WriteString(MutedStyle.Render("    " + p + "\n"))
		}
		if b.More > 0 {
			sb.WriteString(MutedStyle.Render(fmt.Sprintf("    ... and %d more\n", b.More)))
		}
	}
	return sb.String()
}

// formatPlan builds the candidate listing with a category breakdown.
func (f *PrettyFormatter) formatPlan(s *PlanSection) string {
	if s.Total == 0 {
		return MutedStyle.Render("  Nothing to clean under the " + s.Policy + " policy\n")
	}

	var sb strings.Builder

	if len(s.ByCategory) > 0 {
		width := 0
		for _, c := range s.ByCategory {
			if len(c.SizeHuman) > width {
				width = len(c.SizeHuman)
			}
		}
		for _, c := range s.ByCategory {
			sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				ValueStyle.Render(fmt.Sprintf("%5d", c.Count)),
				SizeStyle.Render(padLeft(c.SizeHuman, width)),
				CategoryStyle.Render(c.Category)))
		}
		sb.WriteString("\n")
	}

	width := 0
	for _, c := range s.Candidates {
		if len(c.SizeHuman) > width {
			width = len(c.SizeHuman)
		}
	}
	for _, c := range s.Candidates {
		path := c.Path
		if c.IsDir {
			path += "/"
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			SizeStyle.Render(padLeft(c.SizeHuman, width)),
			PathStyle.Render(path)))
	}
	return sb.String()
}

// formatClean builds the deletion summary.
func (f *PrettyFormatter) formatClean(s *CleanSection) string {
	var sb strings.Builder

	if s.DryRun {
		sb.WriteString(WarningStyle.Bold(true).Render("  Dry run: nothing was deleted") + "\n")
	}

	deletedLabel := "Deleted:"
	if s.Trashed {
		deletedLabel = "Trashed:"
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render(deletedLabel),
		SuccessStyle.Render(fmt.Sprintf("%d", s.Deleted))))
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Freed:"),
		SizeStyle.Render(s.FreedHuman)))
	if s.FreeAfter != "" {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			LabelStyle.Render("Free space:"),
			ValueStyle.Render(s.FreeAfter)))
	}

	if s.Failed > 0 {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("  Failed: %d", s.Failed)) + "\n")
		for _, fp := range s.FailedPaths {
			sb.WriteString(ErrorStyle.Render("    "+fp.Path) +
				MutedStyle.Render(" ("+fp.Reason+")") + "\n")
		}
	}
	return sb.String()
}

// formatDrift builds the added/removed listing.
func (f *PrettyFormatter) formatDrift(s *DriftSection) string {
	if s.Baseline {
		return SuccessStyle.Render("  Baseline recorded; future runs will report drift\n")
	}
	if len(s.Added) == 0 && len(s.Removed) == 0 {
		return MutedStyle.Render("  No drift since the previous snapshot\n")
	}

	var sb strings.Builder
	for _, p := range s.Added {
		sb.WriteString(SuccessStyle.Render("  + "+p) + "\n")
	}
	for _, p := range s.Removed {
		sb.WriteString(ErrorStyle.Render("  - "+p) + "\n")
	}
	return sb.String()
}

// formatSince builds the threshold-query listing.
func (f *PrettyFormatter) formatSince(s *SinceSection) string {
	if len(s.Paths) == 0 {
		return MutedStyle.Render("  No ignored files changed since " +
			s.Since.Format(time.RFC3339) + "\n")
	}

	var sb strings.Builder
	sb.WriteString(LabelStyle.Render("  Changed since ") +
		ValueStyle.Render(s.Since.Format(time.RFC3339)) + "\n")
	for _, p := range s.Paths {
		sb.WriteString(PathStyle.Render("  "+p) + "\n")
	}
	return sb.String()
}

// formatHistory builds the journal listing.
func (f *PrettyFormatter) formatHistory(s *HistorySection) string {
	if s.Pruned > 0 {
		return SuccessStyle.Render(fmt.Sprintf("  Removed %d journal entries\n", s.Pruned))
	}
	if len(s.Entries) == 0 {
		return MutedStyle.Render("  No recorded runs\n")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s  %s\n",
		TableHeaderStyle.Render(padRight("ID", 8)),
		TableHeaderStyle.Render(padRight("TIME", 19)),
		TableHeaderStyle.Render(padRight("OP", 8)),
		TableHeaderStyle.Render(padLeft("COUNT", 5)),
		TableHeaderStyle.Render("ROOT")))

	for _, e := range s.Entries {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s  %s\n",
			ValueStyle.Render(padRight(shortID(e.ID), 8)),
			MutedStyle.Render(e.Time.Format("2006-01-02 15:04:05")),
			CategoryStyle.Render(padRight(e.Op, 8)),
			ValueStyle.Render(padLeft(fmt.Sprintf("%d", e.Count), 5)),
			PathStyle.Render(e.Root)))
	}
	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	add := func(label, value string, style func(string) string) {
		parts = append(parts, LabelStyle.Render(label)+" "+style(value))
	}
	value := func(s string) string { return ValueStyle.Render(s) }
	size := func(s string) string { return SizeStyle.Render(s) }

	switch {
	case r.List != nil:
		add("Ignored:", fmt.Sprintf("%d", r.List.Total), value)
		add("Total:", r.List.SizeHuman, size)
	case r.Classify != nil:
		add("Ignored:", fmt.Sprintf("%d", r.Classify.Total), value)
		add("Total:", r.Classify.SizeHuman, size)
	case r.Plan != nil:
		add("Policy:", r.Plan.Policy, value)
		add("Candidates:", fmt.Sprintf("%d", r.Plan.Total), value)
		add("Reclaimable:", r.Plan.SizeHuman, size)
	case r.Clean != nil:
		add("Policy:", r.Clean.Policy, value)
		add("Deleted:", fmt.Sprintf("%d", r.Clean.Deleted), value)
		add("Freed:", r.Clean.FreedHuman, size)
	case r.Drift != nil && !r.Drift.Baseline:
		add("Added:", fmt.Sprintf("%d", len(r.Drift.Added)), value)
		add("Removed:", fmt.Sprintf("%d", len(r.Drift.Removed)), value)
		add("Unchanged:", fmt.Sprintf("%d", r.Drift.Unchanged), value)
	case r.Since != nil:
		add("Changed:", fmt.Sprintf("%d", len(r.Since.Paths)), value)
	case r.History != nil && r.History.Pruned > 0:
		add("Pruned:", fmt.Sprintf("%d", r.History.Pruned), value)
	case r.History != nil:
		add("Runs:", fmt.Sprintf("%d", len(r.History.Entries)), value)
	default:
		return ""
	}

	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))
	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// sizeWidth returns the width of the widest humanized size, at least 8.
func sizeWidth(items []Item) int {
	width := 8
	for _, it := range items {
		if len(it.SizeHuman) > width {
			width = len(it.SizeHuman)
		}
	}
	return width
}

// padLeft pads a string with spaces on the left to the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// padRight pads a string with spaces on the right to the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// shortID truncates a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatDuration formats a duration in a human-friendly way.
func FormatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
