package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/huggingface"
)

type sample struct {
	ModelID string  `json:"modelId"`
	VRAM    float64 `json:"vram"`
}

func TestFormatOutput(t *testing.T) {
	out, err := FormatOutput(sample{"org/a", 14.5}, OutputJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"modelId\": \"org/a\",\n  \"vram\": 14.5\n}\n", out)

	out, err = FormatOutput(sample{"org/a", 14.5}, OutputYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "modelId: org/a")
	assert.Contains(t, out, "vram: 14.5")

	_, err = FormatOutput(sample{}, OutputTable)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml"} {
		f, err := parseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(s), f)
	}
	_, err := parseFormat("csv")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := &OutputOptions{Format: OutputTable, Writer: &buf}

	called := false
	require.NoError(t, PrintOutput(sample{}, opts, func(w io.Writer) error {
		called = true
		_, err := fmt.Fprint(w, "table view")
		return err
	}))
	assert.True(t, called)
	assert.Equal(t, "table view", buf.String())

	buf.Reset()
	opts.Format = OutputJSON
	require.NoError(t, PrintOutput(sample{ModelID: "org/a"}, opts, nil))
	assert.Contains(t, buf.String(), `"modelId": "org/a"`)

	buf.Reset()
	opts.Quiet = true
	require.NoError(t, PrintOutput(sample{ModelID: "org/a"}, opts, nil))
	assert.Empty(t, buf.String())
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	opts := &OutputOptions{Format: OutputJSON, Err: &buf}
	PrintError(fmt.Errorf("fetch org/a: %w", huggingface.ErrGated), opts)
	assert.Contains(t, buf.String(), `"success": false`)
	assert.Contains(t, buf.String(), `"title": "Gated Model"`)

	buf.Reset()
	opts.Format = OutputTable
	PrintError(errors.New("something odd"), opts)
	assert.Contains(t, buf.String(), "Error: something odd")
}

func TestKeyValuesRendersRows(t *testing.T) {
	var buf bytes.Buffer
	keyValues(&buf, [][2]string{{"Author", "org"}, {"Likes", "12"}})
	assert.Contains(t, buf.String(), "Author")
	assert.Contains(t, buf.String(), "org")
	assert.Contains(t, buf.String(), "12")
}
