package bezsym

import (
	"sort"
)

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, name string, value Expr) Expr {
	return expr.Sub(name, value).Simplify()
}

// Subs replaces every listed symbol at once. A replacement is never itself
// substituted again, so Subs(e, {x: y, y: x}) swaps x and y.
func Subs(expr Expr, bindings map[string]Expr) Expr {
	return expr.Subs(bindings).Simplify()
}

func Diff(expr Expr, name string) Expr {
	return expr.Diff(name).Simplify()
}

func DiffN(expr Expr, name string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, name)
	}
	return result
}

// ============================================================
// Expansion
// ============================================================

// Expand distributes every product over sums and every non-negative integer
// power of a sum or product, leaving a sum of monomials.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && !n.IsNegative() {
			if _, baseIsAdd := base.(*Add); baseIsAdd {
				result := Expr(N(1))
				for i := int64(0); i < n.val.Num().Int64(); i++ {
					result = distribute(result, base)
				}
				return result
			}
			// (a*b)^n = a^n * b^n for integer n.
			if m, baseIsMul := base.(*Mul); baseIsMul {
				result := Expr(N(1))
				for _, f := range m.factors {
					result = distribute(result, expandExpr(PowOf(f, v.exp)))
				}
				return result
			}
		}
		return PowOf(base, v.exp)
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	as, bs := summands(a), summands(b)
	products := make([]Expr, 0, len(as)*len(bs))
	for _, x := range as {
		for _, y := range bs {
			products = append(products, MulOf(x, y))
		}
	}
	return AddOf(products...)
}

func summands(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SymbolNames returns the free symbols of e in sorted order.
func SymbolNames(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	}
}

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the degree of expr in name once expanded. Cancelled
// leading terms do not count.
func Degree(expr Expr, name string) int {
	maxDeg := 0
	for d, c := range PolyCoeffs(expr, name) {
		if cn, ok := c.(*Num); ok && cn.IsZero() {
			continue
		}
		if d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// PolyCoeffsResult maps a power of the variable to its coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs expands expr and returns the coefficient of each power of name.
// Terms with a non-integer power of name are kept under degree 0.
func PolyCoeffs(expr Expr, name string) PolyCoeffsResult {
	result := PolyCoeffsResult{}
	for _, t := range summands(Expand(expr)) {
		deg, coeff := splitMonomial(t, name)
		addCoeff(result, deg, coeff)
	}
	return result
}

func splitMonomial(t Expr, name string) (int, Expr) {
	switch v := t.(type) {
	case *Sym:
		if v.name == name {
			return 1, N(1)
		}
	case *Pow:
		if d, ok := powerOf(v, name); ok {
			return d, N(1)
		}
	case *Mul:
		deg := 0
		rest := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			switch fv := f.(type) {
			case *Sym:
				if fv.name == name {
					deg++
					continue
				}
			case *Pow:
				if d, ok := powerOf(fv, name); ok {
					deg += d
					continue
				}
			}
			rest = append(rest, f)
		}
		if deg > 0 {
			return deg, MulOf(rest...)
		}
	}
	return 0, t
}

func powerOf(p *Pow, name string) (int, bool) {
	sym, ok := p.base.(*Sym)
	if !ok || sym.name != name {
		return 0, false
	}
	n, ok := p.exp.(*Num)
	if !ok || !n.IsInteger() || n.IsNegative() {
		return 0, false
	}
	return int(n.val.Num().Int64()), true
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// Collect groups terms by powers of name.
func Collect(expr Expr, name string) Expr {
	coeffs := PolyCoeffs(expr, name)
	degrees := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degrees = append(degrees, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
	terms := make([]Expr, 0, len(degrees))
	for _, d := range degrees {
		c := coeffs[d]
		if cn, ok := c.(*Num); ok && cn.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c, PowOf(S(name), N(int64(d)))))
	}
	return AddOf(terms...)
}
