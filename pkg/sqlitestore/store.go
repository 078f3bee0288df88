package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/utils"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps the monitor snapshot in a single-row table.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; modernc.org/sqlite does not like concurrent connections to one file
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS monitor_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			last_seen_at TEXT,
			is_online INTEGER NOT NULL DEFAULT 0,
			online_since TEXT,
			offline_since TEXT,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create monitor_state: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (liveness.State, error) {
	var (
		lastSeen, onlineSince, offlineSince sql.NullString
		onlineInt                           int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT last_seen_at, is_online, online_since, offline_since
		FROM monitor_state
		WHERE id = 1
	`).Scan(&lastSeen, &onlineInt, &onlineSince, &offlineSince)
	if errors.Is(err, sql.ErrNoRows) {
		return liveness.State{}, nil
	}
	if err != nil {
		return liveness.State{}, utils.WrapStoreError("store.sqlite.load", err)
	}

	var st liveness.State
	st.IsOnline = onlineInt != 0
	if st.LastSeenAt, err = utils.DecodeStamp(utils.FromNullString(lastSeen)); err != nil {
		return liveness.State{}, err
	}
	if st.OnlineSince, err = utils.DecodeStamp(utils.FromNullString(onlineSince)); err != nil {
		return liveness.State{}, err
	}
	if st.OfflineSince, err = utils.DecodeStamp(utils.FromNullString(offlineSince)); err != nil {
		return liveness.State{}, err
	}
	return st, nil
}

func (s *Store) Save(ctx context.Context, st liveness.State) error {
	onlineInt := 0
	if st.IsOnline {
		onlineInt = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitor_state (id, last_seen_at, is_online, online_since, offline_since, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_seen_at = excluded.last_seen_at,
			is_online = excluded.is_online,
			online_since = excluded.online_since,
			offline_since = excluded.offline_since,
			updated_at = excluded.updated_at
	`,
		utils.ToNullString(utils.EncodeStamp(st.LastSeenAt)),
		onlineInt,
		utils.ToNullString(utils.EncodeStamp(st.OnlineSince)),
		utils.ToNullString(utils.EncodeStamp(st.OfflineSince)),
		time.Now().Unix(),
	)
	if err != nil {
		return utils.WrapStoreError("store.sqlite.save", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
