package mcp

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"ebecollect/internal/expr"
	"ebecollect/internal/query"
	"ebecollect/internal/schema"
)

type EvaluateExpressionInput struct {
	Expression string `json:"expression" jsonschema:"physics notation such as mean(abs(V_2(pion)))"`
}

type RewriteExpressionInput struct {
	Expression string `json:"expression" jsonschema:"physics notation to rewrite without evaluating"`
}

type ListSpeciesInput struct{}

type ListEventsInput struct {
	Table string `json:"table,omitempty" jsonschema:"data table to list event ids from, default multiplicities"`
	MinEventID *int64 `json:"min_event_id,omitempty" jsonschema:"smallest event id to include"`
	MaxEventID *int64 `json:"max_event_id,omitempty" jsonschema:"largest event id to include"`
}

// ComplexOutput holds one element. A part that is infinite or NaN is null,
// since JSON has no spelling for it; Text still shows it.
type ComplexOutput struct {
	Real *float64 `json:"real" jsonschema:"real part, null when not finite"`
	Imag *float64 `json:"imag" jsonschema:"imaginary part, null when not finite"`
}

type EvaluateExpressionOutput struct {
	Rewritten string          `json:"rewritten"`
	Passes    int             `json:"passes"`
	Kind      string          `json:"kind"`
	Shape     []int           `json:"shape"`
	Text      string          `json:"text"`
	Values    []ComplexOutput `json:"values"`
}

type RewriteExpressionOutput struct {
	Rewritten string `json:"rewritten"`
	Passes    int    `json:"passes"`
}

type ListSpeciesOutput struct {
	Species  []string `json:"species"`
	EccTypes []string `json:"ecc_types"`
}

type ListEventsOutput struct {
	Table    string  `json:"table"`
	EventIDs []int64 `json:"event_ids"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "evaluate_expression",
		Description: "Evaluate a physics expression over every collected event",
	}, s.handleEvaluateExpression)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "rewrite_expression",
		Description: "Show the function-call form of a physics expression",
	}, s.handleRewriteExpression)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_species",
		Description: "List particle species and eccentricity types known to the store",
	}, s.handleListSpecies)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_events",
		Description: "List event ids present in a data table",
	}, s.handleListEvents)
}

func (s *Server) handleEvaluateExpression(ctx context.Context, req *sdk.CallToolRequest, input EvaluateExpressionInput) (*sdk.CallToolResult, EvaluateExpressionOutput, error) {
	if strings.TrimSpace(input.Expression) == "" {
		return nil, EvaluateExpressionOutput{}, fmt.Errorf("expression is required")
	}
	s.logger.Info("tool call", zap.String("tool", "evaluate_expression"), zap.String("expression", input.Expression))

	res, err := s.engine.Evaluate(ctx, input.Expression)
	if err != nil {
		s.logger.Warn("evaluation failed", zap.String("expression", input.Expression), zap.Error(err))
		return nil, EvaluateExpressionOutput{}, err
	}
	return nil, evaluateOutputFromResult(res), nil
}

func (s *Server) handleRewriteExpression(ctx context.Context, req *sdk.CallToolRequest, input RewriteExpressionInput) (*sdk.CallToolResult, RewriteExpressionOutput, error) {
	if strings.TrimSpace(input.Expression) == "" {
		return nil, RewriteExpressionOutput{}, fmt.Errorf("expression is required")
	}
	s.logger.Info("tool call", zap.String("tool", "rewrite_expression"), zap.String("expression", input.Expression))

	rewritten, passes, err := s.engine.Rewrite(input.Expression)
	if err != nil {
		return nil, RewriteExpressionOutput{}, err
	}
	return nil, RewriteExpressionOutput{Rewritten: rewritten, Passes: passes}, nil
}

func (s *Server) handleListSpecies(ctx context.Context, req *sdk.CallToolRequest, input ListSpeciesInput) (*sdk.CallToolResult, ListSpeciesOutput, error) {
	s.logger.Info("tool call", zap.String("tool", "list_species"))
	return nil, ListSpeciesOutput{
		Species:  append([]string{}, s.querier.SpeciesNames()...),
		EccTypes: append([]string{}, s.querier.EccTypeNames()...),
	}, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *sdk.CallToolRequest, input ListEventsInput) (*sdk.CallToolResult, ListEventsOutput, error) {
	table := input.Table
	if table == "" {
		table = schema.TableMultiplicities
	}
	if !slices.Contains(schema.DataTables(), table) {
		return nil, ListEventsOutput{}, fmt.Errorf("unknown data table %q", table)
	}
	if input.MinEventID != nil && input.MaxEventID != nil && *input.MinEventID > *input.MaxEventID {
		return nil, ListEventsOutput{}, fmt.Errorf("min_event_id %d exceeds max_event_id %d", *input.MinEventID, *input.MaxEventID)
	}
	s.logger.Info("tool call", zap.String("tool", "list_events"), zap.String("table", table))

	ids, err := s.querier.EventIDs(ctx, table, query.EventRange(input.MinEventID, input.MaxEventID))
	if err != nil {
		return nil, ListEventsOutput{}, err
	}
	return nil, ListEventsOutput{Table: table, EventIDs: append([]int64{}, ids...)}, nil
}

func evaluateOutputFromResult(res *expr.Result) EvaluateExpressionOutput {
	elems := res.Value.Elements()
	values := make([]ComplexOutput, 0, len(elems))
	for _, c := range elems {
		values = append(values, ComplexOutput{Real: finite(real(c)), Imag: finite(imag(c))})
	}
	shape := res.Value.Shape()
	if shape == nil {
		shape = []int{}
	}
	return EvaluateExpressionOutput{
		Rewritten: res.Rewritten,
		Passes:    res.Passes,
		Kind:      res.Value.Kind.String(),
		Shape:     shape,
		Text:      res.Value.String(),
		Values:    values,
	}
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}
