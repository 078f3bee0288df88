package db

import (
	"context"
	"testing"
	"time"

	"lightwatch/internals/modules/liveness"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

// fakeDB keeps the last upserted row in memory.
type fakeDB struct {
	execs []string
	row   []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if len(args) == 4 {
		f.row = args
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{vals: f.row}
}

type fakeRow struct {
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.vals == nil {
		return pgx.ErrNoRows
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *pgtype.Text:
			*d = r.vals[i].(pgtype.Text)
		case *bool:
			*d = r.vals[i].(bool)
		}
	}
	return nil
}

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	fdb := &fakeDB{}

	repo, err := NewStateRepository(ctx, fdb)
	require.NoError(t, err)
	require.Len(t, fdb.execs, 1)

	st, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, liveness.State{}, st)

	want := liveness.State{
		LastSeenAt:   time.Date(2025, 1, 10, 8, 0, 0, 1, time.UTC),
		IsOnline:     false,
		OnlineSince:  time.Date(2025, 1, 10, 7, 0, 0, 0, time.UTC),
		OfflineSince: time.Date(2025, 1, 10, 8, 5, 1, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.False(t, got.IsOnline)
	require.True(t, want.LastSeenAt.Equal(got.LastSeenAt))
	require.True(t, want.OnlineSince.Equal(got.OnlineSince))
	require.True(t, want.OfflineSince.Equal(got.OfflineSince))
}
