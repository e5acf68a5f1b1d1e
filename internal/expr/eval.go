package expr

import (
	"context"

	"ebecollect/internal/query"
)

// Source is the store access the domain calls need. *query.Facade
// implements it.
type Source interface {
	EccentricityVector(ctx context.Context, eccType string, rPower, order int, filter query.Filter) ([]complex128, error)
	RIntegrals(ctx context.Context, eccType string, rPower int, filter query.Filter) ([]float64, error)
	IntegratedFlowVector(ctx context.Context, species string, order int, filter query.Filter) ([]complex128, error)
	Multiplicities(ctx context.Context, species string, filter query.Filter) ([]float64, error)
	InterpolatedDifferentialFlowAllEvents(ctx context.Context, species string, order int, pTs []float64, filter query.Filter) ([][]complex128, error)
	InterpolatedSpectrumAllEvents(ctx context.Context, species string, pTs []float64, filter query.Filter) ([][]float64, error)
}

var _ Source = (*query.Facade)(nil)

type evaluator struct {
	ctx    context.Context
	source Source
}

func (e *evaluator) eval(node Node) (Value, error) {
	switch n := node.(type) {
	case *Number:
		return Scalar(n.Value), nil
	case *String:
		return Text(n.Value), nil
	case *Ident:
		c, ok := constants[n.Name]
		if !ok {
			return Value{}, evalErrorf(n.Name, "unknown name")
		}
		return Scalar(c), nil
	case *List:
		return e.evalList(n)
	case *Unary:
		v, err := e.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		if v.Kind == KindString {
			return Value{}, evalErrorf(opSymbol(n.Op), "cannot apply to a string")
		}
		if n.Op == MINUS {
			// 0-c keeps a real operand's imaginary part at +0
			return mapValue(v, func(c complex128) complex128 { return 0 - c }), nil
		}
		return v, nil
	case *Binary:
		l, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		fn, ok := arith(n.Op)
		if !ok {
			return Value{}, evalErrorf(opSymbol(n.Op), "unsupported operator")
		}
		return broadcast(opSymbol(n.Op), fn, l, r)
	case *Call:
		return e.evalCall(n)
	default:
		return Value{}, evalErrorf("eval", "unsupported node %T", node)
	}
}

// evalList builds a vector from scalars or a matrix from equal length
// vectors.
func (e *evaluator) evalList(n *List) (Value, error) {
	items := make([]Value, len(n.Items))
	for i, item := range n.Items {
		v, err := e.eval(item)
		if err != nil {
			return Value{}, err
		}
		items[i] = v
	}
	if len(items) == 0 {
		return Vector([]complex128{}), nil
	}

	switch items[0].Kind {
	case KindScalar:
		out := make([]complex128, len(items))
		for i, v := range items {
			if v.Kind != KindScalar {
				return Value{}, evalErrorf("[]", "mixed element kinds")
			}
			out[i] = v.Scalar
		}
		return Vector(out), nil
	case KindVector:
		out := make([][]complex128, len(items))
		for i, v := range items {
			if v.Kind != KindVector || len(v.Vector) != len(items[0].Vector) {
				return Value{}, evalErrorf("[]", "rows must be vectors of equal length")
			}
			out[i] = v.Vector
		}
		return Matrix(out), nil
	default:
		return Value{}, evalErrorf("[]", "cannot build a list of %v", items[0].Kind)
	}
}

func (e *evaluator) evalCall(n *Call) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := e.eval(arg)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if fn, ok := builtins[n.Name]; ok {
		return fn(n, args)
	}
	if fn, ok := domainCalls[n.Name]; ok {
		if e.source == nil {
			return Value{}, evalErrorf(n.Name, "no store attached")
		}
		if len(args) != fn.arity {
			return Value{}, evalErrorf(n.Name, "takes %d arguments, got %d", fn.arity, len(args))
		}
		return fn.call(e, args)
	}
	return Value{}, evalErrorf(n.Name, "unknown function")
}

type domainCall struct {
	arity int
	call  func(e *evaluator, args []Value) (Value, error)
}

var domainCalls = map[string]domainCall{
	// ecc(type, r_power, order)
	"ecc": {3, func(e *evaluator, args []Value) (Value, error) {
		eccType, rPower, order, err := nameIntInt("ecc", args)
		if err != nil {
			return Value{}, err
		}
		v, err := e.source.EccentricityVector(e.ctx, eccType, rPower, order, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "ecc", Err: err}
		}
		return Vector(v), nil
	}},
	// rint(type, r_power)
	"rint": {2, func(e *evaluator, args []Value) (Value, error) {
		eccType, rPower, err := nameInt("rint", args)
		if err != nil {
			return Value{}, err
		}
		v, err := e.source.RIntegrals(e.ctx, eccType, rPower, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "rint", Err: err}
		}
		return realVector(v), nil
	}},
	// V(species, order)
	"V": {2, func(e *evaluator, args []Value) (Value, error) {
		species, order, err := nameInt("V", args)
		if err != nil {
			return Value{}, err
		}
		v, err := e.source.IntegratedFlowVector(e.ctx, species, order, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "V", Err: err}
		}
		return Vector(v), nil
	}},
	// mult(species)
	"mult": {1, func(e *evaluator, args []Value) (Value, error) {
		species, err := stringArg("mult", args[0])
		if err != nil {
			return Value{}, err
		}
		v, err := e.source.Multiplicities(e.ctx, species, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "mult", Err: err}
		}
		return realVector(v), nil
	}},
	// diffV(species, order, pTs)
	"diffV": {3, func(e *evaluator, args []Value) (Value, error) {
		species, order, err := nameInt("diffV", args[:2])
		if err != nil {
			return Value{}, err
		}
		pTs, err := realPoints("diffV", args[2])
		if err != nil {
			return Value{}, err
		}
		m, err := e.source.InterpolatedDifferentialFlowAllEvents(e.ctx, species, order, pTs, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "diffV", Err: err}
		}
		return Matrix(m), nil
	}},
	// spectrum(species, pTs)
	"spectrum": {2, func(e *evaluator, args []Value) (Value, error) {
		species, err := stringArg("spectrum", args[0])
		if err != nil {
			return Value{}, err
		}
		pTs, err := realPoints("spectrum", args[1])
		if err != nil {
			return Value{}, err
		}
		m, err := e.source.InterpolatedSpectrumAllEvents(e.ctx, species, pTs, query.Filter{})
		if err != nil {
			return Value{}, &EvalError{Op: "spectrum", Err: err}
		}
		return realMatrix(m), nil
	}},
}

func nameInt(op string, args []Value) (string, int, error) {
	name, err := stringArg(op, args[0])
	if err != nil {
		return "", 0, err
	}
	n, err := intArg(op, args[1])
	if err != nil {
		return "", 0, err
	}
	return name, n, nil
}

func nameIntInt(op string, args []Value) (string, int, int, error) {
	name, m, err := nameInt(op, args[:2])
	if err != nil {
		return "", 0, 0, err
	}
	n, err := intArg(op, args[2])
	if err != nil {
		return "", 0, 0, err
	}
	return name, m, n, nil
}
