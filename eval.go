package bezsym

import (
	"fmt"
	"math"
)

// EvalFloat evaluates e in float64 arithmetic with the given symbol values.
func EvalFloat(e Expr, bindings map[string]float64) (float64, error) {
	switch v := e.(type) {
	case *Num:
		return v.Float64(), nil
	case *Sym:
		x, ok := bindings[v.name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, v.name)
		}
		return x, nil
	case *Add:
		acc := 0.0
		for _, t := range v.terms {
			x, err := EvalFloat(t, bindings)
			if err != nil {
				return 0, err
			}
			acc += x
		}
		return acc, nil
	case *Mul:
		acc := 1.0
		for _, f := range v.factors {
			x, err := EvalFloat(f, bindings)
			if err != nil {
				return 0, err
			}
			acc *= x
		}
		return acc, nil
	case *Pow:
		b, err := EvalFloat(v.base, bindings)
		if err != nil {
			return 0, err
		}
		x, err := EvalFloat(v.exp, bindings)
		if err != nil {
			return 0, err
		}
		p := math.Pow(b, x)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, fmt.Errorf("%w: %s at %g^%g", ErrDomain, v, b, x)
		}
		return p, nil
	}
	return 0, fmt.Errorf("bezsym: cannot evaluate %s expression", e.exprType())
}

// EvalExact substitutes exact rational values and folds the result. It
// reports false when a free symbol is left or a power is not rational.
func EvalExact(e Expr, bindings map[string]Expr) (*Num, bool) {
	return Subs(e, bindings).Eval()
}

// Values converts float64 bindings into exact numbers for Subs.
func Values(bindings map[string]float64) map[string]Expr {
	out := make(map[string]Expr, len(bindings))
	for k, v := range bindings {
		out[k] = NFloat(v)
	}
	return out
}
