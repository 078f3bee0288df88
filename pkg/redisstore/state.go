package redisstore

import (
	"context"
	"fmt"
	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/utils"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldLastSeenAt   = "last_seen_at"
	fieldIsOnline     = "is_online"
	fieldOnlineSince  = "online_since"
	fieldOfflineSince = "offline_since"
	fieldUpdatedAt    = "updated_at"
)

// Load reads the snapshot hash. A missing key is the empty state.
func (c *Client) Load(ctx context.Context) (liveness.State, error) {
	res, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err == redis.Nil || (err == nil && len(res) == 0) {
		return liveness.State{}, nil
	}
	if err != nil {
		return liveness.State{}, utils.WrapStoreError("store.redis.load", err)
	}
	return stateFromHash(res)
}

// Save replaces the snapshot hash atomically; absent timestamps are removed
// from the hash rather than stored as empty strings.
func (c *Client) Save(ctx context.Context, st liveness.State) error {
	set, del := stateToHash(st)
	set[fieldUpdatedAt] = time.Now().Unix()

	err := retry(ctx, 2, func() error {
		_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(del) > 0 {
				pipe.HDel(ctx, c.key, del...)
			}
			pipe.HSet(ctx, c.key, set)
			return nil
		})
		return err
	})
	return utils.WrapStoreError("store.redis.save", err)
}

func stateToHash(st liveness.State) (map[string]any, []string) {
	set := map[string]any{}
	var del []string

	put := func(field string, t time.Time) {
		if v := utils.EncodeStamp(t); v != "" {
			set[field] = v
		} else {
			del = append(del, field)
		}
	}
	put(fieldLastSeenAt, st.LastSeenAt)
	put(fieldOnlineSince, st.OnlineSince)
	put(fieldOfflineSince, st.OfflineSince)

	if st.IsOnline {
		set[fieldIsOnline] = "1"
	} else {
		set[fieldIsOnline] = "0"
	}
	return set, del
}

func stateFromHash(h map[string]string) (liveness.State, error) {
	var (
		st  liveness.State
		err error
	)

	switch h[fieldIsOnline] {
	case "1", "true":
		st.IsOnline = true
	case "", "0", "false":
	default:
		return liveness.State{}, fmt.Errorf("decode %s %q", fieldIsOnline, h[fieldIsOnline])
	}

	if st.LastSeenAt, err = utils.DecodeStamp(h[fieldLastSeenAt]); err != nil {
		return liveness.State{}, err
	}
	if st.OnlineSince, err = utils.DecodeStamp(h[fieldOnlineSince]); err != nil {
		return liveness.State{}, err
	}
	if st.OfflineSince, err = utils.DecodeStamp(h[fieldOfflineSince]); err != nil {
		return liveness.State{}, err
	}
	return st, nil
}
