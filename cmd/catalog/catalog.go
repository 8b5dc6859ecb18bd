/*package catalog reads and writes whitespace-separated column catalogs. Lines
are split on spaces and tabs, everything after a '#' is a comment, and blank
lines are skipped.*/
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const comment = '#'

// CommentString returns the header line describing the contents of each
// column, e.g. "# Column contents: CurlyM(0) omega_m(1) logL(2)".
func CommentString(names []string) string {
	tokens := []string{"# Column contents:"}
	for i, name := range names {
		tokens = append(tokens, fmt.Sprintf("%s(%d)", name, i))
	}
	return strings.Join(tokens, " ")
}

// FormatCols formats equal-length columns as lines of right-aligned values.
// It panics if the columns have different lengths.
func FormatCols(cols [][]float64) []string {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return []string{}
	}

	height := len(cols[0])
	formatted := make([][]string, len(cols))
	for i := range cols {
		if len(cols[i]) != height {
			panic("Columns of unequal height.")
		}
		formatted[i] = formatFloatCol(cols[i])
	}

	lines := make([]string, height)
	tokens := make([]string, len(cols))
	for i := range lines {
		for j := range formatted {
			tokens[j] = formatted[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}
	return lines
}

// FormatRows is FormatCols for row-major data.
func FormatRows(rows [][]float64) []string {
	return FormatCols(Transpose(rows))
}

// Transpose swaps rows and columns. It panics on ragged input.
func Transpose(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := make([][]float64, len(rows[0]))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i := range rows {
		if len(rows[i]) != len(cols) {
			panic("Rows of unequal width.")
		}
		for j := range rows[i] {
			cols[j][i] = rows[i][j]
		}
	}
	return cols
}

func formatFloatCol(col []float64) []string {
	width := 0
	for _, x := range col {
		if n := len(strconv.FormatFloat(x, 'g', 8, 64)); n > width {
			width = n
		}
	}

	out := make([]string, len(col))
	for i, x := range col {
		out[i] = fmt.Sprintf("%*s", width, strconv.FormatFloat(x, 'g', 8, 64))
	}
	return out
}

// Parse parses the columns colIdxs out of a catalog. The returned slice holds
// one column per index. Every data line must have the same number of fields.
func Parse(data []byte, colIdxs []int) ([][]float64, error) {
	return ParseCols(strings.Split(string(data), "\n"), colIdxs)
}

// ParseCols is Parse for a catalog that has already been split into lines,
// such as the contents of stdin.
func ParseCols(lines []string, colIdxs []int) ([][]float64, error) {
	cols := make([][]float64, len(colIdxs))
	width := -1

	for i, line := range lines {
		words := fields(uncomment(line))
		if len(words) == 0 {
			continue
		}

		if width == -1 {
			width = len(words)
			for _, idx := range colIdxs {
				if idx < 0 || idx >= width {
					return nil, fmt.Errorf("line %d has %d columns, so I "+
						"can't read column %d", i+1, width, idx)
				}
			}
		} else if len(words) != width {
			return nil, fmt.Errorf("line %d has %d columns, not %d",
				i+1, len(words), width)
		}

		for j, idx := range colIdxs {
			x, err := strconv.ParseFloat(words[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("I couldn't parse column %d of line "+
					"%d, '%s', as a number", idx, i+1, words[idx])
			}
			cols[j] = append(cols[j], x)
		}
	}

	return cols, nil
}

// ParseRows parses every column of a catalog into rows.
func ParseRows(lines []string) ([][]float64, error) {
	rows := [][]float64{}
	for i, line := range lines {
		words := fields(uncomment(line))
		if len(words) == 0 {
			continue
		}
		if len(rows) > 0 && len(words) != len(rows[0]) {
			return nil, fmt.Errorf("line %d has %d columns, not %d",
				i+1, len(words), len(rows[0]))
		}

		row := make([]float64, len(words))
		for j := range words {
			x, err := strconv.ParseFloat(words[j], 64)
			if err != nil {
				return nil, fmt.Errorf("I couldn't parse column %d of line "+
					"%d, '%s', as a number", j, i+1, words[j])
			}
			row[j] = x
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile reads the columns colIdxs of the catalog fname.
func ReadFile(fname string, colIdxs []int) ([][]float64, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	cols, err := Parse(data, colIdxs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cols, nil
}

// WriteFile writes a header line and the given rows to fname.
func WriteFile(fname string, names []string, rows [][]float64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err = Write(f, names, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes a header line and the given rows to w.
func Write(w io.Writer, names []string, rows [][]float64) error {
	buf := &bytes.Buffer{}
	buf.WriteString(CommentString(names))
	buf.WriteByte('\n')
	for _, line := range FormatRows(rows) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// uncomment removes a trailing "# comment".
func uncomment(line string) string {
	if i := strings.IndexByte(line, comment); i >= 0 {
		return line[:i]
	}
	return line
}

// fields splits a line on runs of spaces, tabs and carriage returns.
func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r'
	})
}
