package datafile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadMatrix(t *testing.T) {
	t.Run("skips comments and blank lines", func(t *testing.T) {
		input := "# pT N v2\n\n0.1  2.5 1e-2\n   \n0.3\t4.0 -3.5E-1\n"
		m, err := ReadMatrix(strings.NewReader(input), "flow.dat")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := [][]float64{{0.1, 2.5, 0.01}, {0.3, 4.0, -0.35}}
		if !reflect.DeepEqual(m.Rows, want) {
			t.Fatalf("unexpected rows: %#v", m.Rows)
		}
		if !reflect.DeepEqual(m.Lines, []int{3, 5}) {
			t.Fatalf("unexpected line numbers: %#v", m.Lines)
		}
		if m.Width() != 3 || m.Len() != 2 {
			t.Fatalf("unexpected shape %dx%d", m.Len(), m.Width())
		}
	})

	t.Run("malformed number", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader("1 2\n3 x4\n"), "bad.dat")
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if parseErr.Line != 2 || parseErr.Column != 1 || parseErr.Path != "bad.dat" {
			t.Fatalf("unexpected location: %+v", parseErr)
		}
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader("1 2 3\n4 5\n"), "ragged.dat")
		if !errors.Is(err, ErrRaggedRow) {
			t.Fatalf("expected ErrRaggedRow, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		m, err := ReadMatrix(strings.NewReader("# nothing\n"), "empty.dat")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if m.Len() != 0 || m.Width() != 0 {
			t.Fatalf("expected empty matrix")
		}
	})
}

func TestMatrixAt(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader("1 2\n3 4\n"), "m.dat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	v, err := m.At(1, 0)
	if err != nil || v != 3 {
		t.Fatalf("At(1, 0) = %v, %v", v, err)
	}
	if _, err := m.At(0, 5); !errors.Is(err, ErrNoColumn) {
		t.Fatalf("expected ErrNoColumn, got %v", err)
	}
	if _, err := m.At(2, 0); !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("expected ErrTooFewRows, got %v", err)
	}
}

func TestReadFormat(t *testing.T) {
	input := "# binUtilities output\ncount = 1, pT_mean_real = 2\nv_1_mean_real = 3; v_1_mean_imag = 4\nv_2_mean_real=5 , v_2_mean_imag=6 # trailing\n"
	format, err := ReadFormat(strings.NewReader(input), "integrated_flow_format.dat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	col, err := format.Column(FieldCount)
	if err != nil || col != 0 {
		t.Fatalf("count column = %d, %v", col, err)
	}
	col, err = format.Column(FieldPTMean)
	if err != nil || col != 1 {
		t.Fatalf("pT column = %d, %v", col, err)
	}

	harmonics, err := format.Harmonics()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []Harmonic{{N: 1, RealCol: 2, ImagCol: 3}, {N: 2, RealCol: 4, ImagCol: 5}}
	if !reflect.DeepEqual(harmonics, want) {
		t.Fatalf("unexpected harmonics: %#v", harmonics)
	}
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing equals", input: "count 1\n"},
		{name: "zero column", input: "count = 0\n"},
		{name: "non numeric column", input: "count = first\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFormat(strings.NewReader(tt.input), "fmt.dat")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}

	t.Run("missing imaginary partner", func(t *testing.T) {
		format, err := ReadFormat(strings.NewReader("v_1_mean_real = 3\n"), "fmt.dat")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := format.Harmonics(); !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
		if _, err := format.Column(FieldCount); !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
	})
}

func TestBinWidth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pT_bins.dat")
	if err := os.WriteFile(path, []byte("0.05 0.0\n0.15 0.1\n0.25 0.2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dpT, err := BinWidth(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dpT < 0.0999 || dpT > 0.1001 {
		t.Fatalf("expected dpT 0.1, got %v", dpT)
	}

	single := filepath.Join(dir, "single.dat")
	if err := os.WriteFile(single, []byte("0.05\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := BinWidth(single); !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("expected ErrTooFewRows, got %v", err)
	}
}
