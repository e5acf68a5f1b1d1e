package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindScalar Kind = iota
	KindVector
	KindMatrix
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression. Matrices are row major
// with one row per event.
type Value struct {
	Kind   Kind
	Scalar complex128
	Vector []complex128
	Matrix [][]complex128
	Text   string
}

func Scalar(c complex128) Value {
	return Value{Kind: KindScalar, Scalar: c}
}

func Vector(v []complex128) Value {
	return Value{Kind: KindVector, Vector: v}
}

func Matrix(m [][]complex128) Value {
	return Value{Kind: KindMatrix, Matrix: m}
}

func Text(s string) Value {
	return Value{Kind: KindString, Text: s}
}

func realVector(v []float64) Value {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = complex(x, 0)
	}
	return Vector(out)
}

func realMatrix(m [][]float64) Value {
	out := make([][]complex128, len(m))
	for i, row := range m {
		out[i] = make([]complex128, len(row))
		for j, x := range row {
			out[i][j] = complex(x, 0)
		}
	}
	return Matrix(out)
}

// Shape follows numpy: () for scalars, (n) for vectors, (rows, cols) for
// matrices.
func (v Value) Shape() []int {
	switch v.Kind {
	case KindVector:
		return []int{len(v.Vector)}
	case KindMatrix:
		if len(v.Matrix) == 0 {
			return []int{0, 0}
		}
		return []int{len(v.Matrix), len(v.Matrix[0])}
	default:
		return nil
	}
}

// Elements flattens the value row by row.
func (v Value) Elements() []complex128 {
	switch v.Kind {
	case KindScalar:
		return []complex128{v.Scalar}
	case KindVector:
		return v.Vector
	case KindMatrix:
		var out []complex128
		for _, row := range v.Matrix {
			out = append(out, row...)
		}
		return out
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return FormatComplex(v.Scalar)
	case KindVector:
		return formatRow(v.Vector)
	case KindMatrix:
		rows := make([]string, len(v.Matrix))
		for i, row := range v.Matrix {
			rows[i] = formatRow(row)
		}
		return "[" + strings.Join(rows, "\n ") + "]"
	case KindString:
		return strconv.Quote(v.Text)
	default:
		return "<invalid>"
	}
}

func formatRow(row []complex128) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = FormatComplex(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatComplex prints real values without an imaginary part.
func FormatComplex(c complex128) string {
	if imag(c) == 0 {
		return strconv.FormatFloat(real(c), 'g', -1, 64)
	}
	return fmt.Sprintf("%s%+gj", strconv.FormatFloat(real(c), 'g', -1, 64), imag(c))
}
