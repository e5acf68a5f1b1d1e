package query

import (
	"context"
	"fmt"

	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

// pT and N keep their case only when quoted.
var (
	quotedPT = store.QuoteIdent(schema.ColumnPT)
	quotedN  = store.QuoteIdent(schema.ColumnN)
)

// Eccentricities returns one (real, imag) pair per matching event.
func (f *Facade) Eccentricities(ctx context.Context, eccType string, rPower, order int, filter Filter) ([]Pair, error) {
	eccID, err := f.lookups.EccID(eccType)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableEccentricities, Columns: []string{"ecc_real", "ecc_imag"}}
	sel.And("ecc_id = ? AND r_power = ? AND n = ?", eccID, rPower, order)
	filter.apply(&sel, schema.ColumnEventID)
	return f.pairs(ctx, sel)
}

func (f *Facade) EccentricityVector(ctx context.Context, eccType string, rPower, order int, filter Filter) ([]complex128, error) {
	pairs, err := f.Eccentricities(ctx, eccType, rPower, order, filter)
	if err != nil {
		return nil, err
	}
	return complexes(pairs), nil
}

func (f *Facade) RIntegrals(ctx context.Context, eccType string, rPower int, filter Filter) ([]float64, error) {
	eccID, err := f.lookups.EccID(eccType)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableRIntegrals, Columns: []string{"r_inte"}}
	sel.And("ecc_id = ? AND r_power = ?", eccID, rPower)
	filter.apply(&sel, schema.ColumnEventID)
	return f.floats(ctx, sel)
}

// IntegratedFlow returns an empty slice, not an error, when nothing matches.
func (f *Facade) IntegratedFlow(ctx context.Context, species string, order int, filter Filter) ([]Pair, error) {
	pid, err := f.lookups.PID(species)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableInteVn, Columns: []string{"vn_real", "vn_imag"}}
	sel.And("pid = ? AND n = ?", pid, order)
	filter.apply(&sel, schema.ColumnEventID)
	return f.pairs(ctx, sel)
}

func (f *Facade) IntegratedFlowVector(ctx context.Context, species string, order int, filter Filter) ([]complex128, error) {
	pairs, err := f.IntegratedFlow(ctx, species, order, filter)
	if err != nil {
		return nil, err
	}
	return complexes(pairs), nil
}

func (f *Facade) Multiplicities(ctx context.Context, species string, filter Filter) ([]float64, error) {
	pid, err := f.lookups.PID(species)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableMultiplicities, Columns: []string{quotedN}}
	sel.And("pid = ?", pid)
	filter.apply(&sel, schema.ColumnEventID)
	return f.floats(ctx, sel)
}

// DifferentialFlowForEvent returns (pT, real, imag) triples ordered by pT.
func (f *Facade) DifferentialFlowForEvent(ctx context.Context, eventID int64, species string, order int, pTRange *PTRange, filter Filter) ([]Triple, error) {
	pid, err := f.lookups.PID(species)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableDiffVn, Columns: []string{quotedPT, "vn_real", "vn_imag"}}
	sel.And("event_id = ? AND pid = ? AND n = ?", eventID, pid, order)
	if pTRange != nil {
		sel.And(quotedPT+" >= ? AND "+quotedPT+" <= ?", pTRange.Min, pTRange.Max)
	}
	filter.apply(&sel, quotedPT)

	out := []Triple{}
	err = f.st.Query(ctx, sel.SQL(), sel.Args, func(row store.Row) error {
		var t Triple
		var err error
		if t.PT, err = store.Float(row[0]); err != nil {
			return err
		}
		if t.Real, err = store.Float(row[1]); err != nil {
			return err
		}
		if t.Imag, err = store.Float(row[2]); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", sel.Table, err)
	}
	return out, nil
}

// InterpolatedDifferentialFlow evaluates one event's flow at every pT.
func (f *Facade) InterpolatedDifferentialFlow(ctx context.Context, eventID int64, species string, order int, pTs []float64) ([]complex128, error) {
	data, err := f.DifferentialFlowForEvent(ctx, eventID, species, order, nil, Filter{})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: event %d, %s, n=%d", ErrNoData, eventID, species, order)
	}
	xp := make([]float64, len(data))
	re := make([]float64, len(data))
	im := make([]float64, len(data))
	for i, t := range data {
		xp[i], re[i], im[i] = t.PT, t.Real, t.Imag
	}
	reAt := Interp(pTs, xp, re)
	imAt := Interp(pTs, xp, im)
	out := make([]complex128, len(pTs))
	for i := range out {
		out[i] = complex(reAt[i], imAt[i])
	}
	return out, nil
}

// InterpolatedDifferentialFlowAllEvents stacks one interpolated row per event
// found in diff_vn.
func (f *Facade) InterpolatedDifferentialFlowAllEvents(ctx context.Context, species string, order int, pTs []float64, filter Filter) ([][]complex128, error) {
	ids, err := f.EventIDs(ctx, schema.TableDiffVn, filter)
	if err != nil {
		return nil, err
	}
	out := make([][]complex128, 0, len(ids))
	for _, id := range ids {
		row, err := f.InterpolatedDifferentialFlow(ctx, id, species, order, pTs)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *Facade) SpectrumForEvent(ctx context.Context, eventID int64, species string, pTRange *PTRange, filter Filter) ([]SpectrumPoint, error) {
	pid, err := f.lookups.PID(species)
	if err != nil {
		return nil, err
	}
	sel := store.Select{Table: schema.TableSpectra, Columns: []string{quotedPT, quotedN}}
	sel.And("event_id = ? AND pid = ?", eventID, pid)
	if pTRange != nil {
		sel.And(quotedPT+" >= ? AND "+quotedPT+" <= ?", pTRange.Min, pTRange.Max)
	}
	filter.apply(&sel, quotedPT)

	out := []SpectrumPoint{}
	err = f.st.Query(ctx, sel.SQL(), sel.Args, func(row store.Row) error {
		var p SpectrumPoint
		var err error
		if p.PT, err = store.Float(row[0]); err != nil {
			return err
		}
		if p.N, err = store.Float(row[1]); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", sel.Table, err)
	}
	return out, nil
}

func (f *Facade) InterpolatedSpectrum(ctx context.Context, eventID int64, species string, pTs []float64) ([]float64, error) {
	data, err := f.SpectrumForEvent(ctx, eventID, species, nil, Filter{})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: event %d, %s", ErrNoData, eventID, species)
	}
	xp := make([]float64, len(data))
	fp := make([]float64, len(data))
	for i, p := range data {
		xp[i], fp[i] = p.PT, p.N
	}
	return Interp(pTs, xp, fp), nil
}

// InterpolatedSpectrumAllEvents stacks one interpolated row per event found
// in spectra.
func (f *Facade) InterpolatedSpectrumAllEvents(ctx context.Context, species string, pTs []float64, filter Filter) ([][]float64, error) {
	ids, err := f.EventIDs(ctx, schema.TableSpectra, filter)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, 0, len(ids))
	for _, id := range ids {
		row, err := f.InterpolatedSpectrum(ctx, id, species, pTs)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
