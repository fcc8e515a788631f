package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/styles"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

const defaultWidth = 100

type OutputOptions struct {
	Format OutputFormat
	Quiet  bool
	Writer io.Writer
	Err    io.Writer
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format: OutputTable,
		Quiet:  false,
		Writer: os.Stdout,
		Err:    os.Stderr,
	}
}

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", s)
	}
}

// FormatOutput marshals data for the machine readable formats
func FormatOutput(data any, format OutputFormat) (string, error) {
	switch format {
	case OutputJSON:
		return formatJSON(data)
	case OutputYAML:
		return formatYAML(data)
	default:
		return "", fmt.Errorf("format %q has no generic encoding", format)
	}
}

func formatJSON(data any) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}
	return string(b) + "\n", nil
}

// formatYAML goes through JSON first so field names follow the json tags
func formatYAML(data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal YAML: %w", err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", fmt.Errorf("marshal YAML: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal YAML: %w", err)
	}
	return string(out), nil
}

// PrintOutput writes data in the selected format. table renders the human readable view
// and is only called for OutputTable.
func PrintOutput(data any, opts *OutputOptions, table func(w io.Writer) error) error {
	if opts.Quiet {
		return nil
	}
	if opts.Format == OutputTable {
		return table(opts.Writer)
	}

	output, err := FormatOutput(data, opts.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(opts.Writer, output)
	return nil
}

// PrintError reports err on the error writer using the registry error classification
func PrintError(err error, opts *OutputOptions) {
	info := huggingface.ClassifyError(err)
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	switch opts.Format {
	case OutputJSON, OutputYAML:
		data := map[string]any{"success": false, "error": info}
		out, _ := FormatOutput(data, opts.Format)
		fmt.Fprint(errOut, out)
	default:
		fmt.Fprintln(errOut, styles.ErrorStyle().Render(info.Title+": "+info.Message))
		if info.Suggestion != "" {
			fmt.Fprintln(errOut, styles.HelpTextStyle().Render(info.Suggestion))
		}
	}
}

// newTable returns a table writer styled like the estimator tables
func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoWrapText(true)
	tw.SetColWidth(columnWidth(len(header)))

	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.SetColumnSeparator("|")
	tw.SetRowSeparator("-")
	return tw
}

// columnWidth shares the terminal width between columns
func columnWidth(columns int) int {
	width := defaultWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if columns <= 0 {
		return width
	}
	return max(width/columns, 12)
}

// keyValues renders two-column rows with the keys in the first column
func keyValues(w io.Writer, rows [][2]string) {
	tw := newTable(w, []string{"Field", "Value"})
	for _, r := range rows {
		tw.Append([]string{r[0], r[1]})
	}
	tw.Render()
}

func heading(w io.Writer, s string) {
	fmt.Fprintln(w, styles.HeaderStyle().Render(s))
}
