package db

import (
	"context"
	"errors"
	"fmt"
	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createStateTable = `
CREATE TABLE IF NOT EXISTS monitor_state (
	id SMALLINT PRIMARY KEY CHECK (id = 1),
	last_seen_at TEXT,
	is_online BOOLEAN NOT NULL DEFAULT FALSE,
	online_since TEXT,
	offline_since TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// StateRepository stores the snapshot as text timestamps; timestamptz would
// drop the original offset and sub-microsecond precision.
type StateRepository struct {
	db      DBTX
	release func() // set when the repository owns its pool
}

func NewStateRepository(ctx context.Context, db DBTX) (*StateRepository, error) {
	if _, err := db.Exec(ctx, createStateTable); err != nil {
		return nil, fmt.Errorf("create monitor_state: %w", err)
	}
	return &StateRepository{db: db}, nil
}

func (r *StateRepository) Close() error {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	return nil
}

func (r *StateRepository) Load(ctx context.Context) (liveness.State, error) {
	var (
		lastSeen, onlineSince, offlineSince pgtype.Text
		isOnline                            bool
	)
	err := r.db.QueryRow(ctx, `
		SELECT last_seen_at, is_online, online_since, offline_since
		FROM monitor_state
		WHERE id = 1
	`).Scan(&lastSeen, &isOnline, &onlineSince, &offlineSince)
	if errors.Is(err, pgx.ErrNoRows) {
		return liveness.State{}, nil
	}
	if err != nil {
		return liveness.State{}, utils.WrapStoreError("store.postgres.load", err)
	}

	st := liveness.State{IsOnline: isOnline}
	if st.LastSeenAt, err = utils.DecodeStamp(utils.FromPgText(lastSeen)); err != nil {
		return liveness.State{}, err
	}
	if st.OnlineSince, err = utils.DecodeStamp(utils.FromPgText(onlineSince)); err != nil {
		return liveness.State{}, err
	}
	if st.OfflineSince, err = utils.DecodeStamp(utils.FromPgText(offlineSince)); err != nil {
		return liveness.State{}, err
	}
	return st, nil
}

func (r *StateRepository) Save(ctx context.Context, st liveness.State) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO monitor_state (id, last_seen_at, is_online, online_since, offline_since, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			last_seen_at = EXCLUDED.last_seen_at,
			is_online = EXCLUDED.is_online,
			online_since = EXCLUDED.online_since,
			offline_since = EXCLUDED.offline_since,
			updated_at = EXCLUDED.updated_at
	`,
		utils.ToPgText(utils.EncodeStamp(st.LastSeenAt)),
		st.IsOnline,
		utils.ToPgText(utils.EncodeStamp(st.OnlineSince)),
		utils.ToPgText(utils.EncodeStamp(st.OfflineSince)),
	)
	if err != nil {
		return utils.WrapStoreError("store.postgres.save", err)
	}
	return nil
}
