package datafile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Matrix is a numeric table with the source line of every row kept for
// error reporting.
type Matrix struct {
	Path  string
	Rows  [][]float64
	Lines []int
}

func LoadMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(f, path)
}

// ReadMatrix parses whitespace separated numbers. Blank lines and lines
// starting with '#' are skipped; every row must be as wide as the first.
func ReadMatrix(r io.Reader, path string) (*Matrix, error) {
	m := &Matrix{Path: path}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	width := -1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if width == -1 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, &ParseError{Path: path, Line: lineNo, Column: -1, Err: fmt.Errorf("%w: got %d fields, want %d", ErrRaggedRow, len(fields), width)}
		}

		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := parseFloat(field)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Column: i, Err: err}
			}
			row[i] = v
		}
		m.Rows = append(m.Rows, row)
		m.Lines = append(m.Lines, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

func parseFloat(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", field)
	}
	return v, nil
}

func (m *Matrix) Len() int {
	return len(m.Rows)
}

// Width is the number of columns, zero for an empty table.
func (m *Matrix) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// At returns the value at row i, column j, reporting a missing column as a
// ParseError against the row's source line.
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= len(m.Rows) {
		return 0, &ParseError{Path: m.Path, Line: m.lastLine(), Column: -1, Err: fmt.Errorf("%w: need row %d, have %d", ErrTooFewRows, i+1, len(m.Rows))}
	}
	row := m.Rows[i]
	if j < 0 || j >= len(row) {
		return 0, &ParseError{Path: m.Path, Line: m.Lines[i], Column: j, Err: fmt.Errorf("%w: row has %d fields", ErrNoColumn, len(row))}
	}
	return row[j], nil
}

func (m *Matrix) lastLine() int {
	if len(m.Lines) == 0 {
		return 0
	}
	return m.Lines[len(m.Lines)-1]
}

// BinWidth returns the spacing of the first two bins in a bin table, read
// from its first column.
func BinWidth(path string) (float64, error) {
	m, err := LoadMatrix(path)
	if err != nil {
		return 0, err
	}
	if m.Len() < 2 {
		return 0, &ParseError{Path: path, Line: m.lastLine(), Column: -1, Err: fmt.Errorf("%w: need 2 bins, have %d", ErrTooFewRows, m.Len())}
	}
	return m.Rows[1][0] - m.Rows[0][0], nil
}
