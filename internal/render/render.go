// Package render formats command output as a table, JSON, or CSV.
//
// Every vendor operation produces a Table (header plus string rows) and
// optionally the raw decoded response. The table feeds the tabular and
// CSV formats; JSON output prefers the raw response so nothing is lost
// to the flattening.
package render

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/vendocli/vendo/internal/logging"
)

// Format identifies an output format selected with --format.
type Format string

const (
	// FormatTable is human-readable aligned columns (the default).
	FormatTable Format = "table"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatCSV is RFC 4180 CSV with a header row.
	FormatCSV Format = "csv"
)

// ErrUnknownFormat indicates an unrecognized --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV:
		return Format(s), nil
	case "":
		return FormatTable, nil
	}
	return "", errors.WithDetailf(ErrUnknownFormat, "%q is not one of table, json, csv", s)
}

// Table is the row model every vendor operation produces.
type Table struct {
	Header []string
	Rows   [][]string

	// Raw is the decoded vendor response; when set, JSON output emits
	// it instead of the flattened rows.
	Raw any
}

// Write renders the table to w in the given format.
func Write(w io.Writer, format Format, tbl Table) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, tbl)
	case FormatCSV:
		return writeCSV(w, tbl)
	default:
		return writeTable(w, tbl)
	}
}

// writeTable renders aligned columns via tabwriter, colorizing the
// header when the writer is a color-capable TTY.
func writeTable(w io.Writer, tbl Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if len(tbl.Header) > 0 {
		header := make([]any, len(tbl.Header))
		useColor := logging.SupportsColor(w)
		for i, h := range tbl.Header {
			if useColor {
				header[i] = color.New(color.Bold, color.FgCyan).Sprint(h)
			} else {
				header[i] = h
			}
		}
		if err := printRow(tw, header); err != nil {
			return err
		}
	}

	for _, row := range tbl.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := printRow(tw, cells); err != nil {
			return err
		}
	}

	return errors.Wrap(tw.Flush(), "flushing table")
}

func printRow(w io.Writer, cells []any) error {
	for i, c := range cells {
		if i > 0 {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, toString(c)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// writeJSON emits the raw response when present, otherwise the rows as
// an array of objects keyed by the header.
func writeJSON(w io.Writer, tbl Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if tbl.Raw != nil {
		return errors.Wrap(enc.Encode(tbl.Raw), "encoding JSON")
	}

	objects := make([]map[string]string, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		obj := make(map[string]string, len(tbl.Header))
		for i, h := range tbl.Header {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		objects = append(objects, obj)
	}
	return errors.Wrap(enc.Encode(objects), "encoding JSON")
}

// writeCSV emits the header row followed by data rows.
func writeCSV(w io.Writer, tbl Table) error {
	cw := csv.NewWriter(w)
	if len(tbl.Header) > 0 {
		if err := cw.Write(tbl.Header); err != nil {
			return errors.Wrap(err, "writing CSV header")
		}
	}
	for _, row := range tbl.Rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

// Target opens the --output destination, defaulting to stdout.
// The caller must Close the result; closing stdout is a no-op.
func Target(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating output file %s", path)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
