// Command bezsym prints the polynomial f(t) whose roots are the parameters
// where a quadratic Bézier curve meets a circle, and its derivative df(t).
//
// Usage:
//
//	bezsym                         # f = ... / df = ...
//	bezsym --form collected        # grouped by powers of t
//	bezsym --format latex
//	bezsym eval --config bezsym.yaml
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/njchilds90/bezsym"
	"github.com/njchilds90/bezsym/internal/config"
	"github.com/njchilds90/bezsym/intersect"
)

var (
	verbose    bool
	configPath string
	formFlag   string
	formatFlag string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bezsym",
	Short: "Derive the Bézier/circle intersection polynomial",
	Long: `Substitutes the quadratic Bézier curve

  x(t) = (1-t)^2 x0 + 2(1-t)t x1 + t^2 x2
  y(t) = (1-t)^2 y0 + 2(1-t)t y1 + t^2 y2

into the circle (x-xc)^2 + (y-yc)^2 - r^2 and prints the resulting f(t)
together with df/dt.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDerive,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate f and df at the configured sample",
	Long: `Evaluates the derived f(t) and df(t) numerically for the curve, circle
and t values in the sample section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&formFlag, "form", "", "Output form: default, expanded or collected")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format: text, latex or json")
	rootCmd.AddCommand(evalCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if formFlag != "" {
		c.Output.Form = formFlag
	}
	if formatFlag != "" {
		c.Output.Format = formatFlag
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err = newLogger(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = c
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func derive() *intersect.Derivation {
	start := time.Now()
	d := intersect.Derive()
	if ce := logger.Check(zapcore.DebugLevel, "derived intersection polynomial"); ce != nil {
		t := d.Symbols.T.Name()
		ce.Write(
			zap.Stringer("symbols", d.Symbols),
			zap.Stringer("circle", d.Circle),
			zap.Int("f_degree", bezsym.Degree(d.F, t)),
			zap.Int("df_degree", bezsym.Degree(d.DF, t)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return d
}

func runDerive(cmd *cobra.Command, args []string) error {
	d := derive()
	logger.Debug("rendering", zap.Stringer("form", cfg.Form()), zap.Stringer("format", cfg.Format()))
	return intersect.Write(cmd.OutOrStdout(), d, cfg.Form(), cfg.Format())
}

func runEval(cmd *cobra.Command, args []string) error {
	d := derive()
	samples, err := d.Samples(cfg.Sample.Params, cfg.Sample.T)
	if err != nil {
		return err
	}
	logger.Debug("evaluated samples", zap.Int("count", len(samples)))

	out := cmd.OutOrStdout()
	if cfg.Format() == intersect.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Params  intersect.Params   `json:"params"`
			Samples []intersect.Sample `json:"samples"`
		}{cfg.Sample.Params, samples})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("t", "f(t)", "df(t)")
	for _, s := range samples {
		tbl.Row(formatFloat(s.T), formatFloat(s.F), formatFloat(s.DF))
	}
	_, err = fmt.Fprintln(out, tbl.Render())
	return err
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
