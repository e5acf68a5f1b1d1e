package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebecollect/internal/collect"
	"ebecollect/internal/schema"
	"ebecollect/internal/store"
	"ebecollect/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Client {
	t.Helper()
	ctx := context.Background()
	client, err := sqlite.New(ctx, sqlite.FileDSN(filepath.Join(t.TempDir(), "query.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(ctx) })
	require.NoError(t, schema.EnsureEccentricityTables(ctx, client))
	require.NoError(t, schema.EnsureFlowTables(ctx, client))
	return client
}

func seed(t *testing.T, st store.Store) *Facade {
	t.Helper()
	ctx := context.Background()
	pion, _ := schema.PID("pion")
	kaon, _ := schema.PID("kaon")
	ed, _ := schema.EccID("ed")

	require.NoError(t, st.Insert(ctx, schema.TableEccentricities, []store.Row{
		{int64(2), ed, int64(2), int64(2), 0.2, -0.1},
		{int64(1), ed, int64(2), int64(2), 0.1, 0.3},
		{int64(1), ed, int64(2), int64(3), 0.9, 0.9},
		{int64(1), ed, int64(3), int64(2), 0.7, 0.7},
	}))
	require.NoError(t, st.Insert(ctx, schema.TableRIntegrals, []store.Row{
		{int64(1), ed, int64(0), 2.0},
		{int64(1), ed, int64(2), 5.0},
		{int64(2), ed, int64(2), 6.0},
	}))
	require.NoError(t, st.Insert(ctx, schema.TableInteVn, []store.Row{
		{int64(1), pion, int64(2), 0.05, 0.01},
		{int64(2), pion, int64(2), 0.06, -0.02},
	}))
	require.NoError(t, st.Insert(ctx, schema.TableMultiplicities, []store.Row{
		{int64(2), pion, 150.0},
		{int64(1), pion, 100.0},
		{int64(1), kaon, 20.0},
	}))
	require.NoError(t, st.Insert(ctx, schema.TableDiffVn, []store.Row{
		{int64(1), pion, 0.4, int64(2), 0.03, 0.02},
		{int64(1), pion, 0.2, int64(2), 0.01, 0.0},
		{int64(2), pion, 0.2, int64(2), 0.02, 0.0},
		{int64(2), pion, 0.6, int64(2), 0.06, 0.04},
	}))
	require.NoError(t, st.Insert(ctx, schema.TableSpectra, []store.Row{
		{int64(1), pion, 0.2, 50.0},
		{int64(1), pion, 0.4, 30.0},
		{int64(3), pion, 0.2, 10.0},
	}))

	f, err := Open(ctx, st)
	require.NoError(t, err)
	return f
}

func TestEccentricitiesSelectsOrder(t *testing.T) {
	ctx := context.Background()
	f := seed(t, newStore(t))

	got, err := f.EccentricityVector(ctx, "ed", 2, 2, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []complex128{complex(0.1, 0.3), complex(0.2, -0.1)}, got)

	got, err = f.EccentricityVector(ctx, "ed", 2, 3, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []complex128{complex(0.9, 0.9)}, got)

	pairs, err := f.Eccentricities(ctx, "ed", 2, 2, Filter{Where: "event_id > 1"})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Real: 0.2, Imag: -0.1}}, pairs)

	_, err = f.Eccentricities(ctx, "xd", 2, 2, Filter{})
	assert.ErrorIs(t, err, schema.ErrUnknownEccType)
}

func TestScalarAccessors(t *testing.T) {
	ctx := context.Background()
	f := seed(t, newStore(t))

	rints, err := f.RIntegrals(ctx, "ed", 2, Filter{OrderBy: "event_id DESC"})
	require.NoError(t, err)
	assert.Equal(t, []float64{6.0, 5.0}, rints)

	mult, err := f.Multiplicities(ctx, "pion", Filter{})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 150}, mult)

	vn, err := f.IntegratedFlowVector(ctx, "pion", 2, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []complex128{complex(0.05, 0.01), complex(0.06, -0.02)}, vn)

	empty, err := f.IntegratedFlowVector(ctx, "kaon", 2, Filter{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.Multiplicities(ctx, "muon", Filter{})
	assert.ErrorIs(t, err, schema.ErrUnknownSpecies)
}

func TestDifferentialFlow(t *testing.T) {
	ctx := context.Background()
	f := seed(t, newStore(t))

	triples, err := f.DifferentialFlowForEvent(ctx, 1, "pion", 2, nil, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []Triple{{PT: 0.2, Real: 0.01}, {PT: 0.4, Real: 0.03, Imag: 0.02}}, triples)

	ranged, err := f.DifferentialFlowForEvent(ctx, 1, "pion", 2, &PTRange{Min: 0.3, Max: 1}, Filter{})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	at, err := f.InterpolatedDifferentialFlow(ctx, 1, "pion", 2, []float64{0.3, 0.1, 0.9})
	require.NoError(t, err)
	require.Len(t, at, 3)
	assert.InDelta(t, 0.02, real(at[0]), 1e-12)
	assert.InDelta(t, 0.01, imag(at[0]), 1e-12)
	assert.Equal(t, complex(0.01, 0), at[1])
	assert.Equal(t, complex(0.03, 0.02), at[2])

	all, err := f.InterpolatedDifferentialFlowAllEvents(ctx, "pion", 2, []float64{0.2}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, [][]complex128{{complex(0.01, 0)}, {complex(0.02, 0)}}, all)

	_, err = f.InterpolatedDifferentialFlow(ctx, 9, "pion", 2, []float64{0.3})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSpectra(t *testing.T) {
	ctx := context.Background()
	f := seed(t, newStore(t))

	points, err := f.SpectrumForEvent(ctx, 1, "pion", nil, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []SpectrumPoint{{PT: 0.2, N: 50}, {PT: 0.4, N: 30}}, points)

	at, err := f.InterpolatedSpectrum(ctx, 1, "pion", []float64{0.3})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, at[0], 1e-9)

	// events come from the spectra table, so event 3 is included and event 2 is not
	all, err := f.InterpolatedSpectrumAllEvents(ctx, "pion", []float64{0.2}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{50}, {10}}, all)

	ids, err := f.EventIDs(ctx, schema.TableSpectra, Filter{Where: "N < 40"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestEventRange(t *testing.T) {
	ctx := context.Background()
	f := seed(t, newStore(t))

	lo, hi := int64(2), int64(3)
	ids, err := f.EventIDs(ctx, schema.TableSpectra, EventRange(&lo, nil))
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	ids, err = f.EventIDs(ctx, schema.TableMultiplicities, EventRange(nil, &lo))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	ids, err = f.EventIDs(ctx, schema.TableMultiplicities, EventRange(&lo, &hi))
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	assert.Equal(t, Filter{}, EventRange(nil, nil))
}

func TestReadOnlyFacadeKeepsTables(t *testing.T) {
	ctx := context.Background()
	dsn := sqlite.FileDSN(filepath.Join(t.TempDir(), "ro.db"))
	writer, err := sqlite.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close(ctx) })
	require.NoError(t, schema.EnsureFlowTables(ctx, writer))
	pion, _ := schema.PID("pion")
	require.NoError(t, writer.Insert(ctx, schema.TableSpectra, []store.Row{{int64(1), pion, 0.2, 50.0}}))

	reader, err := sqlite.NewReadOnly(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close(ctx) })
	f, err := Open(ctx, reader)
	require.NoError(t, err)

	_, _ = f.EventIDs(ctx, schema.TableSpectra, Filter{Where: "1=1); DROP TABLE spectra; --"})

	exists, err := writer.TableExists(ctx, schema.TableSpectra)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNames(t *testing.T) {
	f := seed(t, newStore(t))
	assert.Equal(t, []string{"ed", "sd"}, f.EccTypeNames())
	assert.Len(t, f.SpeciesNames(), len(schema.AllSpecies()))
	assert.Contains(t, f.SpeciesNames(), "proton_thermal")
}

func TestCollectThenInterpolate(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	root := t.TempDir()
	dir := filepath.Join(root, "event-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	files := map[string]string{
		"integrated_flow_format.dat": "count = 1, pT_mean_real = 2, v_1_mean_real = 3, v_1_mean_imag = 4, v_2_mean_real = 5, v_2_mean_imag = 6\n",
		"pT_bins.dat":                "0.1\n0.3\n",
		"differential_flow_pion.dat": "10 0.2 0 0 0.01 0.0\n30 0.4 0 0 0.03 0.02\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	_, err := collect.CreateDatabaseFromEventFolders(ctx, st, root, collect.Options{Mode: collect.ModeUrQMD})
	require.NoError(t, err)

	f, err := Open(ctx, st)
	require.NoError(t, err)
	at, err := f.InterpolatedDifferentialFlow(ctx, 1, "pion", 2, []float64{0.3})
	require.NoError(t, err)
	assert.InDelta(t, 0.02, real(at[0]), 1e-12)
	assert.InDelta(t, 0.01, imag(at[0]), 1e-12)
}

func TestCollectHydroThenQueryAtKnot(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	root := t.TempDir()
	dir := filepath.Join(root, "event-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	vndata := "0.1 0 1.0 0 0 0 0.01 0.00 0\n" +
		"0.3 0 1.0 0 0 0 0.02 0.01 0\n" +
		"0.5 0 1.0 0 0 0 0.03 0.02 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pion_p_vndata.dat"), []byte(vndata), 0o644))

	_, err := collect.CreateDatabaseFromEventFolders(ctx, st, root, collect.Options{Mode: collect.ModePureHydroNewStoring})
	require.NoError(t, err)

	f, err := Open(ctx, st)
	require.NoError(t, err)
	at, err := f.InterpolatedDifferentialFlow(ctx, 1, "pion_p_hydro", 2, []float64{0.3})
	require.NoError(t, err)
	assert.Equal(t, []complex128{complex(0.02, 0.01)}, at)

	all, err := f.InterpolatedDifferentialFlowAllEvents(ctx, "pion_p_hydro", 2, []float64{0.3}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, [][]complex128{{complex(0.02, 0.01)}}, all)
}
