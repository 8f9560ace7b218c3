package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/storage"
)

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.value
	return nil
}

// fakePg records statements and serves rows keyed by namespace/key.
type fakePg struct {
	rows  map[string][]byte
	execs []string
	args  [][]any
}

func (f *fakePg) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	switch {
	case strings.HasPrefix(strings.TrimSpace(sql), "INSERT"):
		f.rows[args[0].(string)+"/"+args[1].(string)] = args[2].([]byte)
	case strings.Contains(sql, "AND key"):
		delete(f.rows, args[0].(string)+"/"+args[1].(string))
	default:
		for k := range f.rows {
			if strings.HasPrefix(k, args[0].(string)+"/") {
				delete(f.rows, k)
			}
		}
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (f *fakePg) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	v, ok := f.rows[args[0].(string)+"/"+args[1].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func (f *fakePg) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported by fake")
}

func TestPostgresAdapter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := &fakePg{rows: map[string][]byte{"other/k": []byte("keep")}}
	a := storage.NewPostgresAdapter(db, "emailkit")

	_, err := a.Get(ctx, "themes")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, a.Set(ctx, "themes", []byte(`[]`)))
	got, err := a.Get(ctx, "themes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Contains(t, db.execs[0], "ON CONFLICT")

	require.NoError(t, a.Set(ctx, "nil", nil))
	assert.Equal(t, []byte{}, db.rows["emailkit/nil"])

	require.NoError(t, a.Remove(ctx, "themes"))
	_, err = a.Get(ctx, "themes")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, a.Clear(ctx))
	assert.Equal(t, map[string][]byte{"other/k": []byte("keep")}, db.rows)

	_, err = a.Keys(ctx)
	assert.Error(t, err)
}

func TestPostgresAdapter_QueryError(t *testing.T) {
	t.Parallel()
	db := &fakePg{rows: map[string][]byte{}}
	a := storage.NewPostgresAdapter(db, "ns")
	_, err := a.Get(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}
