package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"
)

// PlainFormatter formats reports as simple tab-separated tables.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	switch {
	case r.List != nil:
		f.writeList(tw, r.List)
	case r.Classify != nil:
		f.writeClassify(tw, r.Classify)
	case r.Plan != nil:
		f.writePlan(tw, r.Plan)
	case r.Clean != nil:
		f.writeClean(tw, r.Clean)
	case r.Drift != nil:
		f.writeDrift(tw, r.Drift)
	case r.Since != nil:
		f.writeSince(tw, r.Since)
	case r.History != nil:
		f.writeHistory(tw, r.History)
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(tw, "warning\t%s\n", warning)
	}

	return tw.Flush()
}

func (f *PlainFormatter) writeList(tw *tabwriter.Writer, s *ListSection) {
	fmt.Fprint(tw, "SIZE\tPATH\n")
	for _, it := range s.Sample {
		fmt.Fprintf(tw, "%s\t%s\n", it.SizeHuman, it.Path)
	}
	if s.More > 0 {
		fmt.Fprintf(tw, "...\tand %d more\n", s.More)
	}
}

func (f *PlainFormatter) writeClassify(tw *tabwriter.Writer, s *ClassifySection) {
	fmt.Fprint(tw, "CATEGORY\tCOUNT\tSIZE\n")
	for _, b := range s.Buckets {
		if b.Count == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Category, b.Count, b.SizeHuman)
	}
}

func (f *PlainFormatter) writePlan(tw *tabwriter.Writer, s *PlanSection) {
	fmt.Fprint(tw, "SIZE\tCATEGORY\tPATH\n")
	for _, c := range s.Candidates {
		path := c.Path
		if c.IsDir {
			path += "/"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.SizeHuman, c.Category, path)
	}
}

func (f *PlainFormatter) writeClean(tw *tabwriter.Writer, s *CleanSection) {
	if s.DryRun {
		fmt.Fprint(tw, "dry_run\ttrue\n")
	}
	if s.Trashed {
		fmt.Fprint(tw, "trashed\ttrue\n")
	}
	fmt.Fprintf(tw, "deleted\t%d\n", s.Deleted)
	fmt.Fprintf(tw, "failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "freed\t%s\n", s.FreedHuman)
	if s.FreeAfter != "" {
		fmt.Fprintf(tw, "free_after\t%s\n", s.FreeAfter)
	}
	for _, fp := range s.FailedPaths {
		fmt.Fprintf(tw, "failed_path\t%s\t%s\n", fp.Path, fp.Reason)
	}
}

func (f *PlainFormatter) writeDrift(tw *tabwriter.Writer, s *DriftSection) {
	if s.Baseline {
		fmt.Fprint(tw, "baseline\ttrue\n")
		return
	}
	for _, p := range s.Added {
		fmt.Fprintf(tw, "+\t%s\n", p)
	}
	for _, p := range s.Removed {
		fmt.Fprintf(tw, "-\t%s\n", p)
	}
	fmt.Fprintf(tw, "unchanged\t%d\n", s.Unchanged)
}

func (f *PlainFormatter) writeSince(tw *tabwriter.Writer, s *SinceSection) {
	for _, p := range s.Paths {
		fmt.Fprintf(tw, "%s\n", p)
	}
}

func (f *PlainFormatter) writeHistory(tw *tabwriter.Writer, s *HistorySection) {
	if s.Pruned > 0 {
		fmt.Fprintf(tw, "pruned\t%d\n", s.Pruned)
		return
	}
	fmt.Fprint(tw, "ID\tTIME\tOP\tCOUNT\tROOT\n")
	for _, e := range s.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			e.ID, e.Time.Format(time.RFC3339), e.Op, e.Count, e.Root)
	}
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
