// Package output formats a query result for the CLI's one-shot `query`
// subcommand, pluggable by --format the way the rest of the corpus
// renders tabular CLI output: text/tabwriter columns, or a serialized
// form for piping into other tools.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/otelscope/otelscope/internal/sqlengine"
)

// Format names one of the renderers selectable via --format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a --format flag value, defaulting to text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSONL:
		return FormatJSONL, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, jsonl, or csv)", s)
	}
}

// Write renders an in-process query Result to w, used by embedders that
// call internal/query directly rather than over the wire.
func Write(w io.Writer, r *sqlengine.Result, format Format) error {
	rows := make([][]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]interface{}, len(row))
		for j, v := range row {
			rows[i][j] = v.Native()
		}
	}
	return WriteRaw(w, r.Columns, rows, format)
}

// WriteRaw renders a column/row set already reduced to plain Go values,
// the shape a queryrpc.QueryResponse or FollowFrame arrives in over the
// wire.
func WriteRaw(w io.Writer, columns []string, rows [][]interface{}, format Format) error {
	switch format {
	case FormatJSONL:
		return writeJSONL(w, columns, rows)
	case FormatCSV:
		return writeCSV(w, columns, rows)
	default:
		return writeText(w, columns, rows)
	}
}

func writeText(w io.Writer, columns []string, rows [][]interface{}) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprint(tw, "\n")
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(v))
		}
		fmt.Fprint(tw, "\n")
	}
	return tw.Flush()
}

func writeJSONL(w io.Writer, columns []string, rows [][]interface{}) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			record[col] = row[i]
		}
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, columns []string, rows [][]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
