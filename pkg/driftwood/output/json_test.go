package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	require.NoError(t, formatter.Format(&buf, sampleListReport()))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "list", parsed["op"])
	assert.Equal(t, "/repo", parsed["root"])

	list, ok := parsed["list"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), list["total"])
	assert.Equal(t, float64(6144), list["total_bytes"])

	sample, ok := list["sample"].([]any)
	require.True(t, ok)
	require.Len(t, sample, 2)
	first := sample[0].(map[string]any)
	assert.Equal(t, "build/app.o", first["path"])

	// Only the list section is present.
	assert.NotContains(t, parsed, "classify")
	assert.NotContains(t, parsed, "clean")
}

func TestJSONFormatter_Format_Drift(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	report := &Report{
		Op: "drift",
		Drift: &DriftSection{
			Added:     []string{"a"},
			Removed:   []string{"b"},
			Unchanged: 1,
		},
	}
	require.NoError(t, formatter.Format(&buf, report))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	drift := parsed["drift"].(map[string]any)
	assert.Equal(t, false, drift["baseline"])
	assert.Equal(t, []any{"a"}, drift["added"])
	assert.Equal(t, []any{"b"}, drift["removed"])
}
