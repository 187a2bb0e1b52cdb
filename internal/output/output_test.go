package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status_PrintsIconAndMessage(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a status message
	w.Status("🔍", "Loading corpus...")

	// Then: output contains icon and message
	output := buf.String()
	assert.Contains(t, output, "🔍")
	assert.Contains(t, output, "Loading corpus...")
}

func TestWriter_Status_NoIconIndents(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a status message without icon
	w.Status("", "details")

	// Then: the line is indented instead
	assert.Equal(t, "   details\n", buf.String())
}

func TestWriter_Success_PrintsCheckmark(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a success message
	w.Successf("Ingested %d documents", 12)

	// Then: output contains checkmark and message
	output := buf.String()
	assert.Contains(t, output, "✅")
	assert.Contains(t, output, "Ingested 12 documents")
}

func TestWriter_Warning_PrintsWarningIcon(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a warning message
	w.Warning("dense path unavailable")

	// Then: output contains warning icon and message
	output := buf.String()
	assert.Contains(t, output, "⚠️")
	assert.Contains(t, output, "dense path unavailable")
}

func TestWriter_Error_PrintsErrorIcon(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing an error message
	w.Errorf("ingest failed: %s", "corpus missing")

	// Then: output contains error icon and message
	output := buf.String()
	assert.Contains(t, output, "❌")
	assert.Contains(t, output, "ingest failed: corpus missing")
}

func TestWriter_Field_AlignsLabelAndValue(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a label/value pair
	w.Field("Documents", 42)

	// Then: the label is followed by the value
	output := buf.String()
	assert.Contains(t, output, "Documents:")
	assert.Contains(t, output, "42")
}

func TestWriter_Result_FallsBackToID(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a hit without a title
	w.Result(1, "", "doc-123", 0.0325, []string{"lexical", "dense"})

	// Then: the ID stands in for the title and both sources appear
	output := buf.String()
	assert.Contains(t, output, "doc-123")
	assert.Contains(t, output, "lexical+dense")
	assert.NotContains(t, output, "id: doc-123")
}

func TestWriter_Result_PrintsTitleAndID(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a hit with a catalog title
	w.Result(2, "Trash Collection Schedule", "doc-trash", 0.0161, []string{"lexical"})

	// Then: both title and ID are shown
	output := buf.String()
	assert.Contains(t, output, "Trash Collection Schedule")
	assert.Contains(t, output, "id: doc-trash")
}
