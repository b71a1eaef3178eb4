package intersect_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/bezsym"
	"github.com/njchilds90/bezsym/intersect"
)

// direct evaluates the circle equation on the curve point without any
// symbolic machinery.
func direct(p intersect.Params, t float64) float64 {
	mt := 1 - t
	bx := mt*mt*p.X0 + 2*mt*t*p.X1 + t*t*p.X2
	by := mt*mt*p.Y0 + 2*mt*t*p.Y1 + t*t*p.Y2
	return (bx-p.XC)*(bx-p.XC) + (by-p.YC)*(by-p.YC) - p.R*p.R
}

// directDeriv is the chain rule applied by hand: 2(x-xc)x' + 2(y-yc)y'.
func directDeriv(p intersect.Params, t float64) float64 {
	mt := 1 - t
	bx := mt*mt*p.X0 + 2*mt*t*p.X1 + t*t*p.X2
	by := mt*mt*p.Y0 + 2*mt*t*p.Y1 + t*t*p.Y2
	dx := 2*mt*(p.X1-p.X0) + 2*t*(p.X2-p.X1)
	dy := 2*mt*(p.Y1-p.Y0) + 2*t*(p.Y2-p.Y1)
	return 2*(bx-p.XC)*dx + 2*(by-p.YC)*dy
}

func randomParams(rng *rand.Rand) intersect.Params {
	u := func() float64 { return rng.Float64()*10 - 5 }
	return intersect.Params{
		X0: u(), Y0: u(), X1: u(), Y1: u(), X2: u(), Y2: u(),
		XC: u(), YC: u(), R: u(),
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

var scenario = intersect.Params{X0: 0, Y0: 0, X1: 1, Y1: 2, X2: 2, Y2: 0, XC: 1, YC: 0, R: 1}

func TestDerive_MatchesDirectEvaluation(t *testing.T) {
	d := intersect.Derive()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randomParams(rng)
		tt := rng.Float64()*3 - 1
		f, _, err := d.Evaluate(p, tt)
		require.NoError(t, err)
		want := direct(p, tt)
		assert.InDelta(t, want, f, 1e-9*(1+math.Abs(want)), "params %+v t=%g", p, tt)
	}
}

func TestDerive_DerivativeMatchesCentralDifference(t *testing.T) {
	d := intersect.Derive()
	rng := rand.New(rand.NewSource(2))
	const h = 1e-5
	for i := 0; i < 200; i++ {
		p := randomParams(rng)
		tt := rng.Float64()*3 - 1
		_, df, err := d.Evaluate(p, tt)
		require.NoError(t, err)

		numeric := (direct(p, tt+h) - direct(p, tt-h)) / (2 * h)
		assert.InDelta(t, numeric, df, 1e-5*(1+math.Abs(numeric)), "params %+v t=%g", p, tt)

		exact := directDeriv(p, tt)
		assert.InDelta(t, exact, df, 1e-9*(1+math.Abs(exact)), "params %+v t=%g", p, tt)
	}
}

func TestDerive_Degrees(t *testing.T) {
	d := intersect.Derive()
	assert.Equal(t, 4, bezsym.Degree(d.F, "t"))
	assert.Equal(t, 3, bezsym.Degree(d.DF, "t"))
	assert.Equal(t, 2, bezsym.Degree(d.XBezier, "t"))
}

func TestDerive_DegenerateIsZero(t *testing.T) {
	d := intersect.Derive()
	zero := map[string]bezsym.Expr{}
	for _, name := range []string{"x0", "y0", "x1", "y1", "x2", "y2", "xc", "yc", "r"} {
		zero[name] = bezsym.N(0)
	}
	f := bezsym.Subs(d.F, zero)
	df := bezsym.Subs(d.DF, zero)
	assert.Equal(t, "0", f.String())
	assert.Equal(t, "0", df.String())

	for _, tt := range []float64{-1, 0, 0.3, 1, 2.5} {
		fv, dfv, err := d.Evaluate(intersect.Params{}, tt)
		require.NoError(t, err)
		assert.Zero(t, fv)
		assert.Zero(t, dfv)
	}
}

func TestDerive_Scenario(t *testing.T) {
	d := intersect.Derive()

	exact := map[string]bezsym.Expr{
		"x0": bezsym.N(0), "y0": bezsym.N(0),
		"x1": bezsym.N(1), "y1": bezsym.N(2),
		"x2": bezsym.N(2), "y2": bezsym.N(0),
		"xc": bezsym.N(1), "yc": bezsym.N(0),
		"r": bezsym.N(1), "t": bezsym.F(1, 2),
	}
	xb, ok := bezsym.EvalExact(d.XBezier, exact)
	require.True(t, ok)
	assert.Equal(t, "1", xb.String())
	yb, ok := bezsym.EvalExact(d.YBezier, exact)
	require.True(t, ok)
	assert.Equal(t, "1", yb.String())

	f, ok := bezsym.EvalExact(d.F, exact)
	require.True(t, ok)
	assert.True(t, f.IsZero(), "f(1/2) = %s", f)

	fv, dfv, err := d.Evaluate(scenario, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0, fv, 1e-12)
	assert.InDelta(t, 0, dfv, 1e-12)
}

func TestDerive_InputsUnchanged(t *testing.T) {
	d := intersect.Derive()
	const circle = "(x - xc)^2 + (y - yc)^2 - r^2"
	assert.Equal(t, circle, d.Circle.String())

	s := d.Symbols
	fresh := intersect.Circle(s.X, s.Y, s.XC, s.YC, s.R)
	assert.True(t, fresh.Equal(d.Circle))
	assert.True(t, intersect.QuadBezier(s.X0, s.X1, s.X2, s.T).Equal(d.XBezier))

	// Further work on f leaves everything else alone.
	_ = bezsym.Expand(d.F)
	_ = bezsym.Collect(d.F, "t")
	assert.Equal(t, circle, d.Circle.String())

	want := []string{"r", "x", "xc", "y", "yc"}
	if diff := cmp.Diff(want, bezsym.SymbolNames(d.Circle)); diff != "" {
		t.Errorf("circle symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_FreeSymbols(t *testing.T) {
	d := intersect.Derive()
	want := []string{"r", "t", "x0", "x1", "x2", "xc", "y0", "y1", "y2", "yc"}
	if diff := cmp.Diff(want, bezsym.SymbolNames(d.F)); diff != "" {
		t.Errorf("f symbols mismatch (-want +got):\n%s", diff)
	}
	// r^2 does not depend on t.
	wantD := []string{"t", "x0", "x1", "x2", "xc", "y0", "y1", "y2", "yc"}
	if diff := cmp.Diff(wantD, bezsym.SymbolNames(d.DF)); diff != "" {
		t.Errorf("df symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveWith_CustomSymbols(t *testing.T) {
	s, err := intersect.DeclareSymbols("a0 b0 a1 b1 a2 b2 cx cy rad s u v")
	require.NoError(t, err)
	d := intersect.DeriveWith(s)

	assert.Equal(t, 4, bezsym.Degree(d.F, "s"))
	assert.NotContains(t, bezsym.SymbolNames(d.F), "u")

	f, df, err := d.Evaluate(scenario, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0, f, 1e-12)
	assert.InDelta(t, 0, df, 1e-12)
}

func TestDeclareSymbols_Errors(t *testing.T) {
	_, err := intersect.DeclareSymbols("x0 y0 x1")
	assert.ErrorContains(t, err, "want 12 symbols")

	_, err = intersect.DeclareSymbols("x0 y0 x1 y1 x2 y2 xc yc r t x x")
	assert.ErrorContains(t, err, "declared twice")

	_, err = intersect.DeclareSymbols("x0 y0 x1 y1 x2 y2 xc yc r t x 2y")
	assert.ErrorIs(t, err, bezsym.ErrBadSymbol)
}

func TestForms_AgreeNumerically(t *testing.T) {
	d := intersect.Derive()
	rng := rand.New(rand.NewSource(3))
	for _, form := range []intersect.Form{intersect.FormExpanded, intersect.FormCollected} {
		f, df := d.In(form)
		for i := 0; i < 50; i++ {
			p := randomParams(rng)
			tt := rng.Float64()
			b := d.Bindings(p, tt)

			want, wantD, err := d.Evaluate(p, tt)
			require.NoError(t, err)
			got, err := bezsym.EvalFloat(f, b)
			require.NoError(t, err)
			gotD, err := bezsym.EvalFloat(df, b)
			require.NoError(t, err)

			assert.InDelta(t, want, got, 1e-8*(1+math.Abs(want)), "%v f", form)
			assert.InDelta(t, wantD, gotD, 1e-8*(1+math.Abs(wantD)), "%v df", form)
		}
	}
}

func TestForms_CollectedCoefficients(t *testing.T) {
	d := intersect.Derive()
	f, _ := d.In(intersect.FormCollected)
	coeffs := bezsym.PolyCoeffs(f, "t")

	// The t^4 coefficient is |P0 - 2 P1 + P2|^2.
	lead := bezsym.Expand(bezsym.AddOf(
		bezsym.PowOf(bezsym.AddOf(bezsym.S("x0"), bezsym.MulOf(bezsym.N(-2), bezsym.S("x1")), bezsym.S("x2")), bezsym.N(2)),
		bezsym.PowOf(bezsym.AddOf(bezsym.S("y0"), bezsym.MulOf(bezsym.N(-2), bezsym.S("y1")), bezsym.S("y2")), bezsym.N(2)),
	))
	require.Contains(t, coeffs, 4)
	assert.True(t, bezsym.Expand(coeffs[4]).Equal(lead), "t^4 coefficient: %s", coeffs[4])

	// The constant term is f(0) = |P0 - C|^2 - r^2.
	f0 := bezsym.Expand(bezsym.Sub(d.F, "t", bezsym.N(0)))
	require.Contains(t, coeffs, 0)
	assert.True(t, bezsym.Expand(coeffs[0]).Equal(f0), "constant term: %s", coeffs[0])
}

func TestParseForm(t *testing.T) {
	for _, f := range []intersect.Form{intersect.FormDefault, intersect.FormExpanded, intersect.FormCollected} {
		got, err := intersect.ParseForm(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := intersect.ParseForm("factored")
	assert.Error(t, err)
}

func TestSamples(t *testing.T) {
	d := intersect.Derive()
	samples, err := d.Samples(scenario, []float64{0, 0.5, 1})
	require.NoError(t, err)
	require.Len(t, samples, 3)

	want := []intersect.Sample{
		{T: 0, F: direct(scenario, 0), DF: directDeriv(scenario, 0)},
		{T: 0.5, F: 0, DF: 0},
		{T: 1, F: direct(scenario, 1), DF: directDeriv(scenario, 1)},
	}
	if diff := cmp.Diff(want, samples, approx); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}
