package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/teemow/eventcal/internal/codec"
)

// Output formats for commands that print API data.
const (
	outputTable = "table"
	outputJSON  = "json"
)

var outputCodec = codec.New(codec.WithIndent("  "))

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (supported: table, json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := outputCodec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeTable prints rows aligned under header.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatTime(t codec.Time) string {
	if t.IsZero() {
		return "-"
	}
	return codec.FormatTime(t.Time)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
