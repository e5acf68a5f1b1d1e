package schema

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebecollect/internal/store"
	"ebecollect/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Client {
	t.Helper()
	ctx := context.Background()
	client, err := sqlite.New(ctx, sqlite.FileDSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(ctx) })
	return client
}

func countRows(t *testing.T, st store.Store, table string) int64 {
	t.Helper()
	var n int64
	err := st.Query(context.Background(), `SELECT COUNT(*) FROM `+store.QuoteIdent(table), nil, func(row store.Row) error {
		var err error
		n, err = store.Int(row[0])
		return err
	})
	require.NoError(t, err)
	return n
}

func TestDictionary(t *testing.T) {
	assert.Len(t, AllSpecies(), 3*len(baseSpecies))
	assert.Len(t, AllEccTypes(), 2)

	tests := []struct {
		name string
		pid  int64
	}{
		{"total", 0},
		{"total_hydro", 1000},
		{"total_thermal", 2000},
		{"pion_m", -7},
		{"pion_m_hydro", -1007},
		{"pion_m_thermal", -2007},
		{"proton_thermal", 2017},
		{"anit_neutron", -18},
		{"anti_simga_p_hydro", -1022},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid, err := PID(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.pid, pid)
		})
	}
}

func TestLookupErrors(t *testing.T) {
	_, err := PID("muon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSpecies))

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "muon", lookupErr.Name)

	_, err = EccID("xd")
	assert.ErrorIs(t, err, ErrUnknownEccType)

	id, err := EccID("ed")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestIsLookupTable(t *testing.T) {
	assert.True(t, IsLookupTable(TablePIDLookup))
	assert.True(t, IsLookupTable(TableEccIDLookup))
	for _, table := range DataTables() {
		assert.False(t, IsLookupTable(table), table)
	}
}

func TestEnsureLookupPopulatesOnce(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	require.NoError(t, EnsureFlowTables(ctx, st))
	require.NoError(t, EnsureFlowTables(ctx, st))
	require.NoError(t, EnsureEccentricityTables(ctx, st))
	require.NoError(t, EnsureEccentricityTables(ctx, st))

	assert.Equal(t, int64(len(AllSpecies())), countRows(t, st, TablePIDLookup))
	assert.Equal(t, int64(2), countRows(t, st, TableEccIDLookup))

	names, err := st.TableNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, append(DataTables(), TablePIDLookup, TableEccIDLookup), names)
}

func TestReadLookups(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	empty, err := ReadLookups(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, empty.PIDs)
	assert.False(t, empty.Equal(Fixed()))

	require.NoError(t, EnsureFlowTables(ctx, st))
	require.NoError(t, EnsureEccentricityTables(ctx, st))

	got, err := ReadLookups(ctx, st)
	require.NoError(t, err)
	assert.True(t, got.Equal(Fixed()))

	pid, err := got.PID("kaon_p_hydro")
	require.NoError(t, err)
	assert.Equal(t, int64(1012), pid)

	_, err = got.EccID("xd")
	assert.ErrorIs(t, err, ErrUnknownEccType)
}

func TestColumnsIsCopy(t *testing.T) {
	cols, ok := Columns(TableSpectra)
	require.True(t, ok)
	cols[0].Name = "mutated"

	again, _ := Columns(TableSpectra)
	assert.Equal(t, ColumnEventID, again[0].Name)

	_, ok = Columns("nope")
	assert.False(t, ok)
}
