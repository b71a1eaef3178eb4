// Package bezsym is a small deterministic symbolic math kernel.
//
// It carries exactly what is needed to derive closed-form polynomials from
// geometric definitions:
//   - Exact rational arithmetic (math/big.Rat)
//   - Immutable expression trees that simplify as they are built
//   - Substitution, differentiation, expansion and collection by powers
//   - Stable text, LaTeX and JSON output
package bezsym

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrBadSymbol is returned when a symbol name is not an identifier.
	ErrBadSymbol = errors.New("bezsym: malformed symbol name")
	// ErrUnbound is returned when numeric evaluation meets a free symbol.
	ErrUnbound = errors.New("bezsym: unbound symbol")
	// ErrDomain is returned when numeric evaluation leaves the reals.
	ErrDomain = errors.New("bezsym: value outside the real domain")
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic expression. Every operation returns a new
// tree; receivers and arguments are never modified.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(name string, value Expr) Expr
	Subs(bindings map[string]Expr) Expr
	Diff(name string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("bezsym: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f exactly; the result is the binary value of f, not its
// shortest decimal.
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func (n *Num) Simplify() Expr            { return n }
func (n *Num) Sub(string, Expr) Expr     { return n }
func (n *Num) Subs(map[string]Expr) Expr { return n }
func (n *Num) Diff(string) Expr          { return N(0) }
func (n *Num) Eval() (*Num, bool)        { return n, true }
func (n *Num) Equal(other Expr) bool     { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string          { return "num" }
func (n *Num) Float64() float64          { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool              { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool               { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool            { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool           { return n.val.IsInt() }
func (n *Num) IsNegative() bool          { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat             { return new(big.Rat).Set(n.val) }
func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("bezsym: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// numPow raises a to an integer power. a must be non-zero when e < 0.
// maxExactExp bounds the integer exponents folded or evaluated exactly.
const maxExactExp = 64

func numPow(a *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	k := big.NewInt(e)
	num := new(big.Int).Exp(a.val.Num(), k, nil)
	den := new(big.Int).Exp(a.val.Denom(), k, nil)
	result := &Num{val: new(big.Rat).SetFrac(num, den)}
	if neg {
		return numRecip(result)
	}
	return result
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

var symbolName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func S(name string) *Sym { return &Sym{name: name} }

// Symbols declares one symbol per whitespace or comma separated name,
// in order.
func Symbols(names string) ([]*Sym, error) {
	fields := strings.FieldsFunc(names, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty declaration", ErrBadSymbol)
	}
	out := make([]*Sym, len(fields))
	for i, f := range fields {
		if !symbolName.MatchString(f) {
			return nil, fmt.Errorf("%w: %q", ErrBadSymbol, f)
		}
		out[i] = S(f)
	}
	return out, nil
}

func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) LaTeX() string         { return latexName(s.name) }
func (s *Sym) Eval() (*Num, bool)    { return nil, false }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Subs(bindings map[string]Expr) Expr {
	if v, ok := bindings[s.name]; ok {
		return v
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

// latexName renders a trailing index as a subscript: x0 -> x_{0}.
func latexName(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(name) {
		return name
	}
	return name[:i] + "_{" + name[i:] + "}"
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Minus returns a - b.
func Minus(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Simplify flattens nested sums, folds constants and merges terms that
// differ only in their rational coefficient. Terms are ordered by their
// printed form with the constant last, which makes the result canonical.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	keys := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			keys = append(keys, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	sort.Strings(keys)
	result := make([]Expr, 0, len(keys)+1)
	nested := false
	for _, key := range keys {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			// 2*(a+b) - (a+b) leaves a bare sum that must be spliced in.
			if _, ok := rests[key].(*Add); ok {
				nested = true
			}
			result = append(result, rests[key])
		default:
			result = append(result, scaled(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	if nested {
		return (&Add{terms: result}).Simplify()
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		if i > 0 {
			if pos, ok := negated(t); ok {
				b.WriteString(" - ")
				b.WriteString(pos.String())
				continue
			}
			b.WriteString(" + ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		if i > 0 {
			if pos, ok := negated(t); ok {
				b.WriteString(" - ")
				b.WriteString(pos.LaTeX())
				continue
			}
			b.WriteString(" + ")
		}
		b.WriteString(t.LaTeX())
	}
	return b.String()
}

func (a *Add) Sub(name string, value Expr) Expr {
	return a.Subs(map[string]Expr{name: value})
}

func (a *Add) Subs(bindings map[string]Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Subs(bindings)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(name string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(name)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": jsonAll(a.terms)}
}

// Terms returns a copy of the summands.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient to the
// front and merges factors sharing a base by adding their exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct{ base, exp Expr }
	coeff := N(1)
	groups := map[string]*power{}
	keys := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if g, seen := groups[key]; seen {
			g.exp = AddOf(g.exp, exp)
			continue
		}
		groups[key] = &power{base: base, exp: exp}
		keys = append(keys, key)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(keys))
	repass := false
	for _, key := range keys {
		g := groups[key]
		e := PowOf(g.base, g.exp)
		switch v := e.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			repass = true
			others = append(others, v.factors...)
		default:
			others = append(others, e)
		}
	}
	if repass {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func (m *Mul) String() string {
	coeff, rest := splitCoefficient(m)
	parts := make([]string, len(rest))
	for i, f := range rest {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	body := strings.Join(parts, "*")
	switch {
	case coeff == nil:
		return body
	case coeff.IsNegOne():
		return "-" + body
	default:
		return coeff.String() + "*" + body
	}
}

func (m *Mul) LaTeX() string {
	coeff, rest := splitCoefficient(m)
	parts := make([]string, len(rest))
	for i, f := range rest {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	body := strings.Join(parts, " ")
	switch {
	case coeff == nil:
		return body
	case coeff.IsNegOne():
		return "-" + body
	default:
		return coeff.LaTeX() + " " + body
	}
}

func (m *Mul) Sub(name string, value Expr) Expr {
	return m.Subs(map[string]Expr{name: value})
}

func (m *Mul) Subs(bindings map[string]Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Subs(bindings)
	}
	return MulOf(newFactors...)
}

// Diff applies the product rule.
func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		others := make([]Expr, 0, len(m.factors))
		others = append(others, fi.Diff(name))
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": jsonAll(m.factors)}
}

// Factors returns a copy of the factors, coefficient first.
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		// 0^0 and 0^negative stay unevaluated.
		if bn.IsZero() {
			if expIsNum && en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
			if expIsNum {
				return N(0)
			}
		}
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum && en.IsInteger() {
			if e, ok := smallExp(en); ok {
				return numPow(bn, e)
			}
		}
	}
	// (b^m)^n = b^(m*n) holds for integer n.
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	return wrapBase(p.base, p.base.String(), "(", ")") + "^" + wrapExp(p.exp, p.exp.String())
}

func (p *Pow) LaTeX() string {
	return wrapBase(p.base, p.base.LaTeX(), "\\left(", "\\right)") + "^{" + p.exp.LaTeX() + "}"
}

func wrapBase(base Expr, s, open, close string) string {
	switch v := base.(type) {
	case *Add, *Mul, *Pow:
		return open + s + close
	case *Num:
		if v.IsNegative() || !v.IsInteger() {
			return open + s + close
		}
	}
	return s
}

func wrapExp(exp Expr, s string) string {
	switch v := exp.(type) {
	case *Sym:
		return s
	case *Num:
		if !v.IsNegative() && v.IsInteger() {
			return s
		}
	}
	return "(" + s + ")"
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return p.Subs(map[string]Expr{name: value})
}

func (p *Pow) Subs(bindings map[string]Expr) Expr {
	return PowOf(p.base.Subs(bindings), p.exp.Subs(bindings))
}

// Diff applies the power rule. The exponent must not depend on name; the
// kernel has no logarithm.
func (p *Pow) Diff(name string) Expr {
	if dv, ok := p.exp.Diff(name).(*Num); !ok || !dv.IsZero() {
		panic(fmt.Sprintf("bezsym: cannot differentiate %s: exponent depends on %s", p, name))
	}
	du := p.base.Diff(name)
	return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
}

// Eval is exact for integer exponents up to maxExactExp in magnitude. Other
// exponents report false.
func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 || !e.IsInteger() {
		return nil, false
	}
	exp, ok := smallExp(e)
	if !ok || (b.IsZero() && exp < 0) {
		return nil, false
	}
	return numPow(b, exp), true
}

// smallExp reports n as an int64 when it is an integer within maxExactExp.
func smallExp(n *Num) (int64, bool) {
	if !n.IsInteger() || !n.val.Num().IsInt64() {
		return 0, false
	}
	e := n.val.Num().Int64()
	return e, e >= -maxExactExp && e <= maxExactExp
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// helpers
// ============================================================

// extractCoefficient splits a term into its rational coefficient and the
// remaining product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok {
		if coeff, rest := splitCoefficient(m); coeff != nil {
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

func splitCoefficient(m *Mul) (*Num, []Expr) {
	if len(m.factors) >= 2 {
		if coeff, ok := m.factors[0].(*Num); ok {
			return coeff, m.factors[1:]
		}
	}
	return nil, m.factors
}

// scaled builds coeff*rest without re-running simplification; rest must
// already be simplified and carry no coefficient.
func scaled(coeff *Num, rest Expr) Expr {
	if coeff.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{coeff}, m.factors...)}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

// negated reports -t when t prints with a leading minus.
func negated(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		if coeff, rest := extractCoefficient(v); coeff.IsNegative() {
			return scaled(numNeg(coeff), rest), true
		}
	}
	return nil, false
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func jsonAll(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}
