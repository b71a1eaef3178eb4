package intersect

import (
	"fmt"

	"github.com/njchilds90/bezsym"
)

// Form selects how f and df are presented.
type Form int

const (
	// FormDefault is the kernel's own canonical form, untouched.
	FormDefault Form = iota
	// FormExpanded multiplies everything out into monomials.
	FormExpanded
	// FormCollected groups the expanded polynomial by powers of t.
	FormCollected
)

var formNames = map[Form]string{
	FormDefault:   "default",
	FormExpanded:  "expanded",
	FormCollected: "collected",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Form(%d)", int(f))
}

// ParseForm accepts the names printed by Form.String.
func ParseForm(s string) (Form, error) {
	for f, name := range formNames {
		if name == s {
			return f, nil
		}
	}
	return FormDefault, fmt.Errorf("intersect: unknown form %q (want default, expanded or collected)", s)
}

// In returns f and df in the requested form.
func (d *Derivation) In(form Form) (f, df bezsym.Expr) {
	t := d.Symbols.T.Name()
	switch form {
	case FormExpanded:
		return bezsym.Expand(d.F), bezsym.Expand(d.DF)
	case FormCollected:
		return bezsym.Collect(d.F, t), bezsym.Collect(d.DF, t)
	default:
		return d.F, d.DF
	}
}

// Params holds numeric values for every parameter except t.
type Params struct {
	X0 float64 `yaml:"x0" json:"x0"`
	Y0 float64 `yaml:"y0" json:"y0"`
	X1 float64 `yaml:"x1" json:"x1"`
	Y1 float64 `yaml:"y1" json:"y1"`
	X2 float64 `yaml:"x2" json:"x2"`
	Y2 float64 `yaml:"y2" json:"y2"`
	XC float64 `yaml:"xc" json:"xc"`
	YC float64 `yaml:"yc" json:"yc"`
	R  float64 `yaml:"r" json:"r"`
}

// Bindings maps the derivation's symbol names to p and t.
func (d *Derivation) Bindings(p Params, t float64) map[string]float64 {
	s := d.Symbols
	return map[string]float64{
		s.X0.Name(): p.X0, s.Y0.Name(): p.Y0,
		s.X1.Name(): p.X1, s.Y1.Name(): p.Y1,
		s.X2.Name(): p.X2, s.Y2.Name(): p.Y2,
		s.XC.Name(): p.XC, s.YC.Name(): p.YC,
		s.R.Name(): p.R,
		s.T.Name(): t,
	}
}

// Evaluate computes f(t) and df(t) numerically.
func (d *Derivation) Evaluate(p Params, t float64) (f, df float64, err error) {
	b := d.Bindings(p, t)
	if f, err = bezsym.EvalFloat(d.F, b); err != nil {
		return 0, 0, fmt.Errorf("evaluate f: %w", err)
	}
	if df, err = bezsym.EvalFloat(d.DF, b); err != nil {
		return 0, 0, fmt.Errorf("evaluate df: %w", err)
	}
	return f, df, nil
}
