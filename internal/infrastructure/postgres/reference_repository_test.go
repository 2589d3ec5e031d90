package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// rowQuerier registra la última consulta y responde con una fila fija o ErrNoRows.
type rowQuerier struct {
	sql  string
	args []any
	row  []string
}

func (q *rowQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *rowQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (q *rowQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return staticRow{values: q.row}
}

type staticRow struct{ values []string }

func (r staticRow) Scan(dest ...any) error {
	if r.values == nil {
		return pgx.ErrNoRows
	}
	for i, d := range dest {
		*(d.(*string)) = r.values[i]
	}
	return nil
}

func TestLookupQuery_ComparesNativeKey(t *testing.T) {
	for kind, tbl := range referenceTables {
		q := tbl.lookupQuery()
		assert.True(t, strings.HasSuffix(q, "WHERE "+tbl.keyCol+" = $1"), "%s: %s", kind, q)
	}
}

func TestLookup_CommuneUsesIntegerKey(t *testing.T) {
	q := &rowQuerier{row: []string{"13101", "Santiago", "131"}}
	repo := NewReferenceRepository(q)

	ref, err := repo.Lookup(context.Background(), entity.KindCommune, "13101")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "131", ref.ParentKey)
	assert.Equal(t, []any{int32(13101)}, q.args)
	assert.Contains(t, q.sql, "FROM comunas WHERE id = $1")
}

func TestLookup_TextKeyPassedAsIs(t *testing.T) {
	q := &rowQuerier{row: []string{"Soporte", "Soporte", ""}}
	repo := NewReferenceRepository(q)

	_, err := repo.Lookup(context.Background(), entity.KindService, "Soporte")
	require.NoError(t, err)
	assert.Equal(t, []any{"Soporte"}, q.args)
}

func TestLookup_NonNumericGeographyKeyIsMissing(t *testing.T) {
	q := &rowQuerier{row: []string{"x", "x", ""}}
	repo := NewReferenceRepository(q)

	for _, key := range []string{"abc", "99999999999", ""} {
		ref, err := repo.Lookup(context.Background(), entity.KindProvince, key)
		require.NoError(t, err)
		assert.Nil(t, ref, key)
	}
	assert.Empty(t, q.sql)
}

func TestLookup_NoRows(t *testing.T) {
	repo := NewReferenceRepository(&rowQuerier{})
	ref, err := repo.Lookup(context.Background(), entity.KindCompany, "76.000.000-1")
	require.NoError(t, err)
	assert.Nil(t, ref)
}
