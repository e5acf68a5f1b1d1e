package expr

import (
	"math"
	"math/cmplx"
)

type binaryFunc func(a, b complex128) complex128
type unaryFunc func(a complex128) complex128

func arith(op TokenType) (binaryFunc, bool) {
	switch op {
	case PLUS:
		return func(a, b complex128) complex128 { return a + b }, true
	case MINUS:
		return func(a, b complex128) complex128 { return a - b }, true
	case ASTERISK:
		return func(a, b complex128) complex128 { return a * b }, true
	case SLASH:
		return divide, true
	case POWER:
		return power, true
	default:
		return nil, false
	}
}

// divide keeps real division real so that x/0 is ±Inf rather than NaN.
func divide(a, b complex128) complex128 {
	if imag(a) == 0 && imag(b) == 0 {
		return complex(real(a)/real(b), 0)
	}
	return a / b
}

// power uses real arithmetic whenever the result is real.
func power(a, b complex128) complex128 {
	if imag(a) == 0 && imag(b) == 0 {
		x, y := real(a), real(b)
		if x >= 0 || y == math.Trunc(y) {
			return complex(math.Pow(x, y), 0)
		}
	}
	return cmplx.Pow(a, b)
}

// broadcast applies fn elementwise following numpy's rules for the shapes
// this language produces: scalars combine with anything, equal shapes pair
// up, and a vector combines with every row of a matrix whose width matches.
func broadcast(op string, fn binaryFunc, l, r Value) (Value, error) {
	if l.Kind == KindString || r.Kind == KindString {
		return Value{}, evalErrorf(op, "cannot apply to a string")
	}

	switch {
	case l.Kind == KindScalar && r.Kind == KindScalar:
		return Scalar(fn(l.Scalar, r.Scalar)), nil
	case l.Kind == KindScalar:
		return mapValue(r, func(x complex128) complex128 { return fn(l.Scalar, x) }), nil
	case r.Kind == KindScalar:
		return mapValue(l, func(x complex128) complex128 { return fn(x, r.Scalar) }), nil
	case l.Kind == KindVector && r.Kind == KindVector:
		if len(l.Vector) != len(r.Vector) {
			return Value{}, shapeError(op, l, r)
		}
		return Vector(zip(fn, l.Vector, r.Vector)), nil
	case l.Kind == KindMatrix && r.Kind == KindMatrix:
		if len(l.Matrix) != len(r.Matrix) {
			return Value{}, shapeError(op, l, r)
		}
		out := make([][]complex128, len(l.Matrix))
		for i := range l.Matrix {
			if len(l.Matrix[i]) != len(r.Matrix[i]) {
				return Value{}, shapeError(op, l, r)
			}
			out[i] = zip(fn, l.Matrix[i], r.Matrix[i])
		}
		return Matrix(out), nil
	case l.Kind == KindMatrix && r.Kind == KindVector:
		return rowBroadcast(op, l, r, fn)
	case l.Kind == KindVector && r.Kind == KindMatrix:
		return rowBroadcast(op, r, l, func(a, b complex128) complex128 { return fn(b, a) })
	}
	return Value{}, shapeError(op, l, r)
}

// rowBroadcast combines every row of m with v; fn receives (row, v).
func rowBroadcast(op string, m, v Value, fn binaryFunc) (Value, error) {
	out := make([][]complex128, len(m.Matrix))
	for i, row := range m.Matrix {
		if len(row) != len(v.Vector) {
			return Value{}, shapeError(op, m, v)
		}
		out[i] = zip(fn, row, v.Vector)
	}
	return Matrix(out), nil
}

func zip(fn binaryFunc, a, b []complex128) []complex128 {
	out := make([]complex128, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out
}

func mapValue(v Value, fn unaryFunc) Value {
	switch v.Kind {
	case KindScalar:
		return Scalar(fn(v.Scalar))
	case KindVector:
		out := make([]complex128, len(v.Vector))
		for i, x := range v.Vector {
			out[i] = fn(x)
		}
		return Vector(out)
	case KindMatrix:
		out := make([][]complex128, len(v.Matrix))
		for i, row := range v.Matrix {
			out[i] = make([]complex128, len(row))
			for j, x := range row {
				out[i][j] = fn(x)
			}
		}
		return Matrix(out)
	default:
		return v
	}
}

func shapeError(op string, l, r Value) *EvalError {
	return evalErrorf(op, "shape mismatch %v %v and %v %v", l.Kind, l.Shape(), r.Kind, r.Shape())
}
