package intersect

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/njchilds90/bezsym"
)

// Format selects the output syntax.
type Format int

const (
	FormatText Format = iota
	FormatLaTeX
	FormatJSON
)

var formatNames = map[Format]string{
	FormatText:  "text",
	FormatLaTeX: "latex",
	FormatJSON:  "json",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatText, fmt.Errorf("intersect: unknown format %q (want text, latex or json)", s)
}

type exprDoc struct {
	Text  string          `json:"text"`
	LaTeX string          `json:"latex"`
	Tree  json.RawMessage `json:"tree"`
}

type report struct {
	Form    string   `json:"form"`
	Symbols []string `json:"symbols"`
	F       exprDoc  `json:"f"`
	DF      exprDoc  `json:"df"`
}

func newExprDoc(e bezsym.Expr) (exprDoc, error) {
	tree, err := bezsym.MarshalExpr(e)
	if err != nil {
		return exprDoc{}, err
	}
	return exprDoc{Text: e.String(), LaTeX: e.LaTeX(), Tree: tree}, nil
}

// Write renders f and df. Text and LaTeX produce the two lines
//
//	f = ...
//	df = ...
//
// JSON produces a single document carrying both renderings and the trees.
func Write(w io.Writer, d *Derivation, form Form, format Format) error {
	f, df := d.In(form)
	switch format {
	case FormatText:
		_, err := fmt.Fprintf(w, "f = %s\ndf = %s\n", f, df)
		return err
	case FormatLaTeX:
		_, err := fmt.Fprintf(w, "f = %s\ndf = %s\n", f.LaTeX(), df.LaTeX())
		return err
	case FormatJSON:
		fd, err := newExprDoc(f)
		if err != nil {
			return fmt.Errorf("encode f: %w", err)
		}
		dfd, err := newExprDoc(df)
		if err != nil {
			return fmt.Errorf("encode df: %w", err)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report{
			Form:    form.String(),
			Symbols: bezsym.SymbolNames(d.F),
			F:       fd,
			DF:      dfd,
		})
	}
	return fmt.Errorf("intersect: unsupported format %v", format)
}

// Sample is one numeric evaluation of f and df.
type Sample struct {
	T  float64 `json:"t"`
	F  float64 `json:"f"`
	DF float64 `json:"df"`
}

// Samples evaluates f and df at every t in ts.
func (d *Derivation) Samples(p Params, ts []float64) ([]Sample, error) {
	out := make([]Sample, 0, len(ts))
	for _, t := range ts {
		f, df, err := d.Evaluate(p, t)
		if err != nil {
			return nil, fmt.Errorf("t=%g: %w", t, err)
		}
		out = append(out, Sample{T: t, F: f, DF: df})
	}
	return out, nil
}
