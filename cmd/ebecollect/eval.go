package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ebecollect/internal/expr"
	"ebecollect/internal/query"
)

func evalCmd() *cobra.Command {
	var rewriteOnly bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a physics expression over every collected event",
		Long: `Evaluates notation such as

  ebecollect eval 'mean(abs(V_2(pion)))/mean(abs(e_2(ed)))'
  ebecollect eval 'V_2(linspace(0.2,2,10))(pion)'

Each domain term yields one value per event.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(strings.Join(args, " "), rewriteOnly, asJSON)
		},
	}
	cmd.Flags().BoolVar(&rewriteOnly, "rewrite-only", false, "Print the rewritten expression without evaluating it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

// evalOutput is the --json shape. Infinite and NaN parts encode as null.
type evalOutput struct {
	Rewritten string     `json:"rewritten"`
	Passes    int        `json:"passes"`
	Kind      string     `json:"kind,omitempty"`
	Shape     []int      `json:"shape,omitempty"`
	Real      []*float64 `json:"real,omitempty"`
	Imag      []*float64 `json:"imag,omitempty"`
	Text      string     `json:"text,omitempty"`
}

func newEvalOutput(res *expr.Result) evalOutput {
	out := evalOutput{
		Rewritten: res.Rewritten,
		Passes:    res.Passes,
		Kind:      res.Value.Kind.String(),
		Shape:     res.Value.Shape(),
		Text:      res.Value.String(),
	}
	for _, c := range res.Value.Elements() {
		out.Real = append(out.Real, finite(real(c)))
		out.Imag = append(out.Imag, finite(imag(c)))
	}
	return out
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}

func runEval(notation string, rewriteOnly, asJSON bool) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := expr.Options{MaxIterations: cfg.Expression.MaxIterations}

	var out evalOutput
	if rewriteOnly {
		rewritten, passes, err := expr.NewEngine(nil, opts).Rewrite(notation)
		if err != nil {
			return err
		}
		out = evalOutput{Rewritten: rewritten, Passes: passes}
	} else {
		db, err := openReadOnlyDB(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		facade, err := query.Open(ctx, db)
		if err != nil {
			return err
		}
		res, err := expr.NewEngine(facade, opts).Evaluate(ctx, notation)
		if err != nil {
			return err
		}
		out = newEvalOutput(res)
	}

	if asJSON {
		payload, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}

	logger.Debug("rewritten", zap.String("expression", out.Rewritten), zap.Int("passes", out.Passes))
	fmt.Fprintln(os.Stdout, out.Rewritten)
	if !rewriteOnly {
		fmt.Fprintln(os.Stdout, out.Text)
	}
	return nil
}
