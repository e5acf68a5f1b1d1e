package expr

import (
	"math"
	"math/cmplx"
	"sort"
)

type builtin func(call *Call, args []Value) (Value, error)

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"abs":      elementwise("abs", func(c complex128) complex128 { return complex(cmplx.Abs(c), 0) }),
		"real":     elementwise("real", func(c complex128) complex128 { return complex(real(c), 0) }),
		"imag":     elementwise("imag", func(c complex128) complex128 { return complex(imag(c), 0) }),
		"conj":     elementwise("conj", cmplx.Conj),
		"angle":    elementwise("angle", func(c complex128) complex128 { return complex(cmplx.Phase(c), 0) }),
		"sqrt":     elementwise("sqrt", sqrt),
		"exp":      elementwise("exp", cmplx.Exp),
		"log":      elementwise("log", logarithm),
		"sin":      elementwise("sin", cmplx.Sin),
		"cos":      elementwise("cos", cmplx.Cos),
		"mean":     reduction("mean", mean),
		"sum":      reduction("sum", sum),
		"std":      reduction("std", std),
		"min":      reduction("min", func(v []complex128) complex128 { return extreme(v, -1) }),
		"max":      reduction("max", func(v []complex128) complex128 { return extreme(v, 1) }),
		"len":      length,
		"linspace": linspace,
	}
}

var constants = map[string]complex128{
	"pi": complex(math.Pi, 0),
}

// sqrt stays real for non-negative reals.
func sqrt(c complex128) complex128 {
	if imag(c) == 0 && real(c) >= 0 {
		return complex(math.Sqrt(real(c)), 0)
	}
	return cmplx.Sqrt(c)
}

func logarithm(c complex128) complex128 {
	if imag(c) == 0 && real(c) > 0 {
		return complex(math.Log(real(c)), 0)
	}
	return cmplx.Log(c)
}

func elementwise(name string, fn unaryFunc) builtin {
	return func(call *Call, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, evalErrorf(name, "takes 1 argument, got %d", len(args))
		}
		if args[0].Kind == KindString {
			return Value{}, evalErrorf(name, "cannot apply to a string")
		}
		return mapValue(args[0], fn), nil
	}
}

// reduction collapses all elements, or with a second argument of 0 or 1
// reduces a matrix along that axis.
func reduction(name string, fn func([]complex128) complex128) builtin {
	return func(call *Call, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return Value{}, evalErrorf(name, "takes 1 or 2 arguments, got %d", len(args))
		}
		v := args[0]
		if v.Kind == KindString {
			return Value{}, evalErrorf(name, "cannot apply to a string")
		}
		if len(args) == 1 {
			elems := v.Elements()
			if len(elems) == 0 {
				return Value{}, evalErrorf(name, "empty input")
			}
			return Scalar(fn(elems)), nil
		}

		axis, err := intArg(name, args[1])
		if err != nil {
			return Value{}, err
		}
		if v.Kind != KindMatrix {
			if axis != 0 {
				return Value{}, evalErrorf(name, "axis %d out of range for %v", axis, v.Kind)
			}
			return reduction(name, fn)(call, args[:1])
		}
		return reduceAxis(name, v.Matrix, axis, fn)
	}
}

func reduceAxis(name string, m [][]complex128, axis int, fn func([]complex128) complex128) (Value, error) {
	if len(m) == 0 {
		return Value{}, evalErrorf(name, "empty input")
	}
	switch axis {
	case 0:
		cols := len(m[0])
		out := make([]complex128, cols)
		column := make([]complex128, len(m))
		for j := 0; j < cols; j++ {
			for i, row := range m {
				if len(row) != cols {
					return Value{}, evalErrorf(name, "ragged matrix")
				}
				column[i] = row[j]
			}
			out[j] = fn(column)
		}
		return Vector(out), nil
	case 1:
		out := make([]complex128, len(m))
		for i, row := range m {
			if len(row) == 0 {
				return Value{}, evalErrorf(name, "empty row")
			}
			out[i] = fn(row)
		}
		return Vector(out), nil
	default:
		return Value{}, evalErrorf(name, "axis %d out of range for matrix", axis)
	}
}

func sum(v []complex128) complex128 {
	var s complex128
	for _, x := range v {
		s += x
	}
	return s
}

func mean(v []complex128) complex128 {
	return sum(v) / complex(float64(len(v)), 0)
}

// std is the population standard deviation |x - mean| as numpy computes it
// for complex input.
func std(v []complex128) complex128 {
	m := mean(v)
	var acc float64
	for _, x := range v {
		d := cmplx.Abs(x - m)
		acc += d * d
	}
	return complex(math.Sqrt(acc/float64(len(v))), 0)
}

// extreme orders complex values by real part, then imaginary part. sign is
// 1 for the maximum and -1 for the minimum.
func extreme(v []complex128, sign int) complex128 {
	sorted := append([]complex128(nil), v...)
	sort.Slice(sorted, func(i, j int) bool {
		if real(sorted[i]) != real(sorted[j]) {
			return real(sorted[i]) < real(sorted[j])
		}
		return imag(sorted[i]) < imag(sorted[j])
	})
	if sign > 0 {
		return sorted[len(sorted)-1]
	}
	return sorted[0]
}

func length(call *Call, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, evalErrorf("len", "takes 1 argument, got %d", len(args))
	}
	switch v := args[0]; v.Kind {
	case KindVector:
		return Scalar(complex(float64(len(v.Vector)), 0)), nil
	case KindMatrix:
		return Scalar(complex(float64(len(v.Matrix)), 0)), nil
	case KindString:
		return Scalar(complex(float64(len(v.Text)), 0)), nil
	default:
		return Value{}, evalErrorf("len", "scalar has no length")
	}
}

// linspace(start, stop[, num]) returns num evenly spaced points including
// both ends; num defaults to 50.
func linspace(call *Call, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, evalErrorf("linspace", "takes 2 or 3 arguments, got %d", len(args))
	}
	start, err := realArg("linspace", args[0])
	if err != nil {
		return Value{}, err
	}
	stop, err := realArg("linspace", args[1])
	if err != nil {
		return Value{}, err
	}
	num := 50
	if len(args) == 3 {
		if num, err = intArg("linspace", args[2]); err != nil {
			return Value{}, err
		}
		if num < 0 {
			return Value{}, evalErrorf("linspace", "negative point count %d", num)
		}
		if num > maxLinspacePoints {
			return Value{}, evalErrorf("linspace", "point count %d exceeds %d", num, maxLinspacePoints)
		}
	}

	out := make([]complex128, num)
	if num == 1 {
		out[0] = complex(start, 0)
		return Vector(out), nil
	}
	step := (stop - start) / float64(num-1)
	for i := range out {
		out[i] = complex(start+float64(i)*step, 0)
	}
	if num > 1 {
		out[num-1] = complex(stop, 0)
	}
	return Vector(out), nil
}

func realArg(op string, v Value) (float64, error) {
	if v.Kind != KindScalar || imag(v.Scalar) != 0 {
		return 0, evalErrorf(op, "expected a real number, got %v", v.Kind)
	}
	return real(v.Scalar), nil
}

const (
	maxIntArg         = math.MaxInt32
	maxLinspacePoints = 1_000_000
)

// intArg accepts integral reals within ±maxIntArg, so the conversion to int
// never overflows.
func intArg(op string, v Value) (int, error) {
	x, err := realArg(op, v)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) {
		return 0, evalErrorf(op, "expected an integer, got %g", x)
	}
	if math.Abs(x) > maxIntArg {
		return 0, evalErrorf(op, "integer %g out of range", x)
	}
	return int(x), nil
}

func stringArg(op string, v Value) (string, error) {
	if v.Kind != KindString {
		return "", evalErrorf(op, "expected a string, got %v", v.Kind)
	}
	return v.Text, nil
}

// realPoints converts a scalar or vector argument into a real grid.
func realPoints(op string, v Value) ([]float64, error) {
	switch v.Kind {
	case KindScalar:
		x, err := realArg(op, v)
		if err != nil {
			return nil, err
		}
		return []float64{x}, nil
	case KindVector:
		out := make([]float64, len(v.Vector))
		for i, c := range v.Vector {
			if imag(c) != 0 {
				return nil, evalErrorf(op, "grid point %d is complex", i)
			}
			out[i] = real(c)
		}
		return out, nil
	default:
		return nil, evalErrorf(op, "expected a number or vector of points, got %v", v.Kind)
	}
}
