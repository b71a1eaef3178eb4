// Package intersect derives the equation satisfied by the parameter t at
// which a quadratic Bézier curve crosses a circle.
//
// Substituting the curve into the implicit circle equation gives
//
//	f(t) = (x(t) - xc)^2 + (y(t) - yc)^2 - r^2
//
// a quartic in t whose roots are the intersection parameters, together with
// its derivative df/dt. Both are meant to be transcribed into a numeric
// root finder elsewhere.
package intersect

import (
	"fmt"
	"strings"

	"github.com/njchilds90/bezsym"
)

// Symbols names every unknown in the derivation.
type Symbols struct {
	X0, Y0 *bezsym.Sym // start point
	X1, Y1 *bezsym.Sym // control point
	X2, Y2 *bezsym.Sym // end point
	XC, YC *bezsym.Sym // circle center
	R      *bezsym.Sym // circle radius
	T      *bezsym.Sym // curve parameter
	X, Y   *bezsym.Sym // plane coordinates of the circle equation
}

const symbolDecl = "x0 y0 x1 y1 x2 y2 xc yc r t x y"

// DefaultSymbols returns x0 y0 x1 y1 x2 y2 xc yc r t x y.
func DefaultSymbols() Symbols {
	s, err := DeclareSymbols(symbolDecl)
	if err != nil {
		panic(err)
	}
	return s
}

// DeclareSymbols declares the twelve symbols from a name list in the order
// x0 y0 x1 y1 x2 y2 xc yc r t x y.
func DeclareSymbols(names string) (Symbols, error) {
	syms, err := bezsym.Symbols(names)
	if err != nil {
		return Symbols{}, err
	}
	if len(syms) != 12 {
		return Symbols{}, fmt.Errorf("intersect: want 12 symbols (%s), got %d", symbolDecl, len(syms))
	}
	seen := map[string]bool{}
	for _, s := range syms {
		if seen[s.Name()] {
			return Symbols{}, fmt.Errorf("intersect: symbol %q declared twice", s.Name())
		}
		seen[s.Name()] = true
	}
	return Symbols{
		X0: syms[0], Y0: syms[1],
		X1: syms[2], Y1: syms[3],
		X2: syms[4], Y2: syms[5],
		XC: syms[6], YC: syms[7],
		R: syms[8], T: syms[9],
		X: syms[10], Y: syms[11],
	}, nil
}

func (s Symbols) String() string {
	names := []string{
		s.X0.Name(), s.Y0.Name(), s.X1.Name(), s.Y1.Name(), s.X2.Name(), s.Y2.Name(),
		s.XC.Name(), s.YC.Name(), s.R.Name(), s.T.Name(), s.X.Name(), s.Y.Name(),
	}
	return strings.Join(names, " ")
}

// QuadBezier returns one coordinate of a quadratic Bézier curve in
// Bernstein form: (1-t)^2 c0 + 2(1-t)t c1 + t^2 c2.
func QuadBezier(c0, c1, c2, t bezsym.Expr) bezsym.Expr {
	mt := bezsym.Minus(bezsym.N(1), t)
	return bezsym.AddOf(
		bezsym.MulOf(bezsym.PowOf(mt, bezsym.N(2)), c0),
		bezsym.MulOf(bezsym.N(2), mt, t, c1),
		bezsym.MulOf(bezsym.PowOf(t, bezsym.N(2)), c2),
	)
}

// Circle returns the implicit circle (x-xc)^2 + (y-yc)^2 - r^2, zero on the
// boundary.
func Circle(x, y, xc, yc, r bezsym.Expr) bezsym.Expr {
	two := bezsym.N(2)
	return bezsym.AddOf(
		bezsym.PowOf(bezsym.Minus(x, xc), two),
		bezsym.PowOf(bezsym.Minus(y, yc), two),
		bezsym.Neg(bezsym.PowOf(r, two)),
	)
}

// Derivation holds every intermediate expression. None of them is modified
// by later steps.
type Derivation struct {
	Symbols Symbols
	XBezier bezsym.Expr
	YBezier bezsym.Expr
	Circle  bezsym.Expr
	F       bezsym.Expr // circle with the curve substituted for x and y
	DF      bezsym.Expr // dF/dt
}

// Derive runs the derivation over DefaultSymbols.
func Derive() *Derivation { return DeriveWith(DefaultSymbols()) }

// DeriveWith runs the derivation over caller supplied symbols.
func DeriveWith(s Symbols) *Derivation {
	d := &Derivation{Symbols: s}
	d.XBezier = QuadBezier(s.X0, s.X1, s.X2, s.T)
	d.YBezier = QuadBezier(s.Y0, s.Y1, s.Y2, s.T)
	d.Circle = Circle(s.X, s.Y, s.XC, s.YC, s.R)
	d.F = bezsym.Subs(d.Circle, map[string]bezsym.Expr{
		s.X.Name(): d.XBezier,
		s.Y.Name(): d.YBezier,
	})
	d.DF = bezsym.Diff(d.F, s.T.Name())
	return d
}
