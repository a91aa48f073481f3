package classify

import (
	"fmt"

	"github.com/jasongoodwin/dora/ast"
)

// result carries one evaluation step's outcome. absent marks an option
// lookup that found nothing; only .exists may observe it without an
// error, so it is threaded separately from the value.
type result struct {
	value  ast.Value
	absent bool
}

// Evaluate runs a compiled expression against one packet context and
// returns the classification decision. It is a pure function of its
// arguments: the tree is read-only and may be shared across concurrent
// evaluations without locking.
func Evaluate(expr ast.Expr, ctx PacketContext) (bool, error) {
	res, err := eval(expr, ctx)
	if err != nil {
		return false, err
	}
	v, err := demand(res, expr)
	if err != nil {
		return false, err
	}
	if v.Kind() != ast.KindBoolean {
		return false, fmt.Errorf("%w: rule evaluates to %s, want boolean", ErrTypeMismatch, v.Kind())
	}
	return v.Bool(), nil
}

func eval(expr ast.Expr, ctx PacketContext) (result, error) {
	switch e := expr.(type) {
	case ast.Literal:
		return result{value: e.Value}, nil

	case ast.FieldAccess:
		return result{value: ast.NewText(ctx.GetField(e.Field))}, nil

	case ast.Option:
		data, ok := ctx.GetOption(e.Code)
		if !ok {
			return result{absent: true}, nil
		}
		return result{value: ast.NewText(data)}, nil

	case ast.Relay:
		data, ok := ctx.GetRelayOption(e.Code)
		if !ok {
			return result{absent: true}, nil
		}
		return result{value: ast.NewText(data)}, nil

	case ast.Member:
		return result{value: ast.NewBoolean(ctx.IsMember(e.Name))}, nil

	case ast.Substring:
		return evalSubstring(e, ctx)

	case ast.Concat:
		left, err := evalBytes(e.Left, ctx)
		if err != nil {
			return result{}, err
		}
		right, err := evalBytes(e.Right, ctx)
		if err != nil {
			return result{}, err
		}
		joined := make([]byte, 0, len(left)+len(right))
		joined = append(joined, left...)
		joined = append(joined, right...)
		return result{value: ast.NewText(joined)}, nil

	case ast.Not:
		v, err := evalValue(e.Operand, ctx)
		if err != nil {
			return result{}, err
		}
		if v.Kind() != ast.KindBoolean {
			return result{}, fmt.Errorf("%w: not applied to %s", ErrTypeMismatch, v.Kind())
		}
		return result{value: ast.NewBoolean(!v.Bool())}, nil

	case ast.ToHex:
		data, err := evalBytes(e.Base, ctx)
		if err != nil {
			return result{}, err
		}
		return result{value: ast.NewHexBlob(data)}, nil

	case ast.Exists:
		if !optionAccess(e.Base) {
			return result{}, fmt.Errorf("%w: .exists requires an option, relay4 or sub-option access", ErrTypeMismatch)
		}
		res, err := eval(e.Base, ctx)
		if err != nil {
			return result{}, err
		}
		return result{value: ast.NewBoolean(!res.absent)}, nil

	case ast.SubOption:
		if !optionAccess(e.Base) {
			return result{}, fmt.Errorf("%w: .option[N] requires an option, relay4 or sub-option access", ErrTypeMismatch)
		}
		base, err := eval(e.Base, ctx)
		if err != nil {
			return result{}, err
		}
		if base.absent {
			return result{absent: true}, nil
		}
		data, err := base.value.Bytes()
		if err != nil {
			return result{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		value, found := findSubOption(data, e.Code)
		if !found {
			return result{absent: true}, nil
		}
		return result{value: ast.NewText(value)}, nil

	case ast.Chain:
		return evalChain(e, ctx)

	default:
		return result{}, fmt.Errorf("unknown expression node %T", expr)
	}
}

// evalChain folds the flat operator sequence strictly left to right.
// There is deliberately no short-circuiting: every operand is evaluated
// so a type or missing-field error surfaces identically no matter what
// the running result already is.
func evalChain(c ast.Chain, ctx PacketContext) (result, error) {
	acc, err := evalValue(c.First, ctx)
	if err != nil {
		return result{}, err
	}
	for _, term := range c.Rest {
		rhs, err := evalValue(term.Operand, ctx)
		if err != nil {
			return result{}, err
		}
		acc, err = combine(term.Op, acc, rhs)
		if err != nil {
			return result{}, err
		}
	}
	return result{value: acc}, nil
}

func combine(op ast.Operator, left, right ast.Value) (ast.Value, error) {
	switch op {
	case ast.OpEqual, ast.OpNotEqual:
		eq, err := left.Equal(right)
		if err != nil {
			return ast.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		if op == ast.OpNotEqual {
			eq = !eq
		}
		return ast.NewBoolean(eq), nil
	default: // and, or
		if left.Kind() != ast.KindBoolean || right.Kind() != ast.KindBoolean {
			return ast.Value{}, fmt.Errorf("%w: %s applied to %s and %s",
				ErrTypeMismatch, op, left.Kind(), right.Kind())
		}
		if op == ast.OpAnd {
			return ast.NewBoolean(left.Bool() && right.Bool()), nil
		}
		return ast.NewBoolean(left.Bool() || right.Bool()), nil
	}
}

// evalSubstring slices the canonical bytes of the source. Index issues
// are fail-soft: after clamping, anything out of range yields an empty
// result, never an error.
func evalSubstring(s ast.Substring, ctx PacketContext) (result, error) {
	data, err := evalBytes(s.Source, ctx)
	if err != nil {
		return result{}, err
	}
	size := int64(len(data))
	start := s.Start
	if start < 0 {
		start = size + start
		if start < 0 {
			start = 0
		}
	}
	if start >= size {
		return result{value: ast.NewText(nil)}, nil
	}
	end := size
	if s.Length >= 0 {
		end = start + s.Length
		if end > size {
			end = size
		}
	}
	return result{value: ast.NewText(data[start:end])}, nil
}

// evalValue evaluates a sub-expression that must produce a value:
// absence is an error here.
func evalValue(expr ast.Expr, ctx PacketContext) (ast.Value, error) {
	res, err := eval(expr, ctx)
	if err != nil {
		return ast.Value{}, err
	}
	return demand(res, expr)
}

// evalBytes evaluates a sub-expression down to its canonical byte form.
func evalBytes(expr ast.Expr, ctx PacketContext) ([]byte, error) {
	v, err := evalValue(expr, ctx)
	if err != nil {
		return nil, err
	}
	data, err := v.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return data, nil
}

func demand(res result, expr ast.Expr) (ast.Value, error) {
	if res.absent {
		return ast.Value{}, fmt.Errorf("%w: %v", ErrMissingField, expr)
	}
	return res.value, nil
}

// optionAccess reports whether a node is an option, relay or sub-option
// lookup, the only bases .exists and .option[N] are defined for.
func optionAccess(expr ast.Expr) bool {
	switch expr.(type) {
	case ast.Option, ast.Relay, ast.SubOption:
		return true
	}
	return false
}
