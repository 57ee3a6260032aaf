package output

import (
	"bytes"
)

// pathList flattens whichever section a report carries into its natural
// path list. For a drift report that is the added paths and for a clean
// report the failures; sections without a path list yield nothing.
func pathList(r *Report) []string {
	switch {
	case r.List != nil:
		paths := make([]string, 0, len(r.List.Sample))
		for _, item := range r.List.Sample {
			paths = append(paths, item.Path)
		}
		return paths
	case r.Classify != nil:
		var paths []string
		for _, b := range r.Classify.Buckets {
			paths = append(paths, b.Sample...)
		}
		return paths
	case r.Plan != nil:
		paths := make([]string, 0, len(r.Plan.Candidates))
		for _, c := range r.Plan.Candidates {
			paths = append(paths, c.Path)
		}
		return paths
	case r.Clean != nil:
		paths := make([]string, 0, len(r.Clean.FailedPaths))
		for _, f := range r.Clean.FailedPaths {
			paths = append(paths, f.Path)
		}
		return paths
	case r.Drift != nil:
		return r.Drift.Added
	case r.Since != nil:
		return r.Since.Paths
	}
	return nil
}

// PathsFormatter formats output as one path per line, with no sizes or
// other metadata. The result pipes cleanly into xargs, grep, or du.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, path := range pathList(r) {
		w.WriteString(path)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)

// NullFormatter formats output as null-delimited paths for xargs -0 and
// friends. Null delimiters survive paths containing spaces or newlines.
type NullFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *NullFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, path := range pathList(r) {
		w.WriteString(path)
		w.WriteByte(0)
	}
	return nil
}

func init() {
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

// Ensure NullFormatter implements Formatter.
var _ Formatter = (*NullFormatter)(nil)
