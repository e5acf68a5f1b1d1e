package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ebecollect/internal/expr"
	"ebecollect/internal/query"
	"ebecollect/internal/schema"
)

type mockQuerier struct {
	ecc       []complex128
	flow      []complex128
	mult      []float64
	eventIDs  []int64
	eventsErr error

	lastEccType   string
	lastRPower    int
	lastOrder     int
	lastSpecies   string
	lastTable     string
	lastFilter    query.Filter
	lastPTs       []float64
	multiplicityN int
}

func (m *mockQuerier) EccentricityVector(ctx context.Context, eccType string, rPower, order int, filter query.Filter) ([]complex128, error) {
	m.lastEccType, m.lastRPower, m.lastOrder = eccType, rPower, order
	return m.ecc, nil
}

func (m *mockQuerier) RIntegrals(ctx context.Context, eccType string, rPower int, filter query.Filter) ([]float64, error) {
	return []float64{1}, nil
}

func (m *mockQuerier) IntegratedFlowVector(ctx context.Context, species string, order int, filter query.Filter) ([]complex128, error) {
	m.lastSpecies, m.lastOrder = species, order
	if species == "muon" {
		return nil, &schema.LookupError{Kind: schema.ErrUnknownSpecies, Name: species}
	}
	return m.flow, nil
}

func (m *mockQuerier) Multiplicities(ctx context.Context, species string, filter query.Filter) ([]float64, error) {
	m.lastSpecies = species
	m.multiplicityN++
	return m.mult, nil
}

func (m *mockQuerier) InterpolatedDifferentialFlowAllEvents(ctx context.Context, species string, order int, pTs []float64, filter query.Filter) ([][]complex128, error) {
	m.lastSpecies, m.lastOrder, m.lastPTs = species, order, pTs
	return [][]complex128{{complex(0.02, 0.01)}}, nil
}

func (m *mockQuerier) InterpolatedSpectrumAllEvents(ctx context.Context, species string, pTs []float64, filter query.Filter) ([][]float64, error) {
	m.lastSpecies, m.lastPTs = species, pTs
	return [][]float64{{40}}, nil
}

func (m *mockQuerier) SpeciesNames() []string { return []string{"kaon", "pion"} }

func (m *mockQuerier) EccTypeNames() []string { return []string{"ed", "sd"} }

func (m *mockQuerier) EventIDs(ctx context.Context, table string, filter query.Filter) ([]int64, error) {
	m.lastTable = table
	m.lastFilter = filter
	return m.eventIDs, m.eventsErr
}

func TestEvaluateExpression(t *testing.T) {
	querier := &mockQuerier{ecc: []complex128{complex(3, 4), complex(0, 5)}}
	server := NewServer(querier, expr.Options{}, nil, "test")

	_, output, err := server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "abs(e_2(ed))"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Rewritten != `abs(ecc("ed",2,2))` || output.Passes != 1 {
		t.Fatalf("unexpected rewrite: %+v", output)
	}
	if output.Kind != "vector" || len(output.Shape) != 1 || output.Shape[0] != 2 {
		t.Fatalf("unexpected shape: %+v", output)
	}
	if *output.Values[0].Real != 5 || *output.Values[1].Real != 5 || *output.Values[0].Imag != 0 {
		t.Fatalf("unexpected values: %+v", output.Values)
	}
	if querier.lastEccType != "ed" || querier.lastRPower != 2 || querier.lastOrder != 2 {
		t.Fatalf("unexpected call params")
	}
}

func TestEvaluateExpression_Scalar(t *testing.T) {
	server := NewServer(&mockQuerier{}, expr.Options{}, nil, "test")

	_, output, err := server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "V_2(0.3)(pion)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Text != "[[0.02+0.01j]]" {
		t.Fatalf("unexpected text: %q", output.Text)
	}

	_, output, err = server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "1+1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Kind != "scalar" || output.Shape == nil || len(output.Shape) != 0 || output.Text != "2" {
		t.Fatalf("unexpected scalar output: %+v", output)
	}
}

func TestEvaluateExpression_NonFinite(t *testing.T) {
	server := NewServer(&mockQuerier{}, expr.Options{}, nil, "test")

	_, output, err := server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "[1/0, -1/0, 0/0, 2]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if output.Values[i].Real != nil {
			t.Fatalf("value %d: expected null real part, got %v", i, *output.Values[i].Real)
		}
		if output.Values[i].Imag == nil || *output.Values[i].Imag != 0 {
			t.Fatalf("value %d: expected zero imaginary part", i)
		}
	}
	if output.Values[3].Real == nil || *output.Values[3].Real != 2 {
		t.Fatalf("unexpected finite value: %+v", output.Values[3])
	}
	if _, err := json.Marshal(output); err != nil {
		t.Fatalf("output must encode as JSON: %v", err)
	}
}

func TestEvaluateExpression_Errors(t *testing.T) {
	server := NewServer(&mockQuerier{}, expr.Options{}, nil, "test")

	if _, _, err := server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "  "}); err == nil {
		t.Fatalf("expected error for empty expression")
	}

	_, _, err := server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "V_2(muon)"})
	if !errors.Is(err, schema.ErrUnknownSpecies) || !errors.Is(err, expr.ErrEvaluation) {
		t.Fatalf("expected unknown species evaluation error, got %v", err)
	}

	_, _, err = server.handleEvaluateExpression(context.Background(), nil, EvaluateExpressionInput{Expression: "e_2(xyz)"})
	if !errors.Is(err, expr.ErrUnresolvedNotation) {
		t.Fatalf("expected unresolved notation, got %v", err)
	}
}

func TestRewriteExpression(t *testing.T) {
	querier := &mockQuerier{}
	server := NewServer(querier, expr.Options{}, nil, "test")

	_, output, err := server.handleRewriteExpression(context.Background(), nil, RewriteExpressionInput{Expression: "N(pion)/N(kaon)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Rewritten != `mult("pion")/mult("kaon")` {
		t.Fatalf("unexpected rewrite: %+v", output)
	}
	if querier.multiplicityN != 0 {
		t.Fatalf("rewrite must not touch the store")
	}
}

func TestListSpecies(t *testing.T) {
	server := NewServer(&mockQuerier{}, expr.Options{}, nil, "test")

	_, output, err := server.handleListSpecies(context.Background(), nil, ListSpeciesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Species) != 2 || output.Species[1] != "pion" || len(output.EccTypes) != 2 {
		t.Fatalf("unexpected species output: %+v", output)
	}
}

func TestListEvents(t *testing.T) {
	querier := &mockQuerier{eventIDs: []int64{3, 7}}
	server := NewServer(querier, expr.Options{}, nil, "test")

	lo, hi := int64(3), int64(7)
	_, output, err := server.handleListEvents(context.Background(), nil, ListEventsInput{MinEventID: &lo, MaxEventID: &hi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Table != schema.TableMultiplicities || len(output.EventIDs) != 2 || output.EventIDs[1] != 7 {
		t.Fatalf("unexpected events output: %+v", output)
	}
	if querier.lastTable != schema.TableMultiplicities || querier.lastFilter.Where != "event_id >= ? AND event_id <= ?" {
		t.Fatalf("unexpected list filter: %+v", querier.lastFilter)
	}
	if len(querier.lastFilter.Args) != 2 || querier.lastFilter.Args[0] != int64(3) || querier.lastFilter.Args[1] != int64(7) {
		t.Fatalf("event bounds must be bound as arguments, got %+v", querier.lastFilter.Args)
	}

	if _, _, err := server.handleListEvents(context.Background(), nil, ListEventsInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if querier.lastFilter.Where != "" || len(querier.lastFilter.Args) != 0 {
		t.Fatalf("expected an empty filter, got %+v", querier.lastFilter)
	}

	if _, _, err := server.handleListEvents(context.Background(), nil, ListEventsInput{MinEventID: &hi, MaxEventID: &lo}); err == nil {
		t.Fatalf("expected error for inverted range")
	}

	if _, _, err := server.handleListEvents(context.Background(), nil, ListEventsInput{Table: schema.TablePIDLookup}); err == nil {
		t.Fatalf("expected error for lookup table")
	}

	querier.eventsErr = errors.New("boom")
	if _, _, err := server.handleListEvents(context.Background(), nil, ListEventsInput{Table: schema.TableSpectra}); err == nil {
		t.Fatalf("expected store error")
	}
}
