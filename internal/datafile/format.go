package datafile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	FieldCount  = "count"
	FieldPTMean = "pT_mean_real"
)

// Format maps declared field names to 0-based column indices.
type Format map[string]int

// Harmonic holds the columns of one flow harmonic.
type Harmonic struct {
	N       int
	RealCol int
	ImagCol int
}

func LoadFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFormat(f, path)
}

// ReadFormat parses "name = column" assignments. Several assignments may
// share a line when separated by ',' or ';'. Columns are 1-based in the file.
func ReadFormat(r io.Reader, path string) (Format, error) {
	format := make(Format)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, assignment := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			assignment = strings.TrimSpace(assignment)
			if assignment == "" {
				continue
			}
			name, value, ok := strings.Cut(assignment, "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return nil, &ParseError{Path: path, Line: lineNo, Column: -1, Err: fmt.Errorf("invalid assignment %q", assignment)}
			}
			col, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || col < 1 {
				return nil, &ParseError{Path: path, Line: lineNo, Column: -1, Err: fmt.Errorf("invalid column for %s: %q", name, strings.TrimSpace(value))}
			}
			format[name] = col - 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return format, nil
}

func (f Format) Column(name string) (int, error) {
	col, ok := f[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return col, nil
}

// Harmonics looks up v_1_mean_real, v_2_mean_real, ... until one is absent.
// Every real field needs its imaginary partner.
func (f Format) Harmonics() ([]Harmonic, error) {
	var out []Harmonic
	for n := 1; ; n++ {
		realCol, ok := f[fmt.Sprintf("v_%d_mean_real", n)]
		if !ok {
			return out, nil
		}
		imagCol, err := f.Column(fmt.Sprintf("v_%d_mean_imag", n))
		if err != nil {
			return nil, err
		}
		out = append(out, Harmonic{N: n, RealCol: realCol, ImagCol: imagCol})
	}
}
