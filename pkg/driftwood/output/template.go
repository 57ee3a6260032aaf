package output

import (
	"bytes"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter renders a report through a user-supplied Go
// text/template. The template executes against the Report and can call
// the registered helper functions.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a template formatter with the given
// template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{templateStr: templateStr}
}

// SetTemplate replaces the template string. The next Format call
// recompiles it.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

// templateFuncs returns the helper functions available to templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// date formats a time.Time with the given layout.
		// Usage: {{date .Drift.PreviousAt "2006-01-02"}}
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},

		// bytes renders a size as a human-readable string.
		// Usage: {{bytes .List.TotalBytes}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},

		// paths flattens the report's section into its path list.
		// Usage: {{range paths .}}{{.}}{{end}}
		"paths": pathList,
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, r)
}

// defaultTemplate lists the report's paths, one per line.
const defaultTemplate = `{{range paths .}}{{.}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
