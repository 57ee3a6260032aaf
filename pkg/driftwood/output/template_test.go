package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFormatter_Custom(t *testing.T) {
	formatter := NewTemplateFormatter(`{{.Op}}: {{.List.Total}} files, {{bytes .List.TotalBytes}}`)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, sampleListReport()))

	assert.Equal(t, "list: 4 files, 6.0 KiB", buf.String())
}

func TestTemplateFormatter_Default(t *testing.T) {
	formatter, err := Get("template")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, sampleListReport()))

	assert.Equal(t, "build/app.o\ndebug.log\n", buf.String())
}

func TestTemplateFormatter_ParseError(t *testing.T) {
	formatter := NewTemplateFormatter(`{{range`)

	var buf bytes.Buffer
	assert.Error(t, formatter.Format(&buf, sampleListReport()))
}

func TestTemplateFormatter_SetTemplate(t *testing.T) {
	formatter := NewTemplateFormatter(`first`)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, sampleListReport()))
	assert.Equal(t, "first", buf.String())

	formatter.SetTemplate(`{{.Op}}`)
	buf.Reset()
	require.NoError(t, formatter.Format(&buf, sampleListReport()))
	assert.Equal(t, "list", buf.String())
}

func TestTemplateFormatter_DateFunc(t *testing.T) {
	report := &Report{
		Op: "drift",
		Drift: &DriftSection{
			PreviousAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Added:      []string{"new.log"},
		},
	}

	formatter := NewTemplateFormatter(`{{date .Drift.PreviousAt "2006-01-02"}}`)
	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, report))

	assert.Equal(t, "2025-06-01", buf.String())
}
