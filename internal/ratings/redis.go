package ratings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/smartbet/internal/elo"
)

// Redis stores each sport as a hash of team name to JSON record.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a persister on an open client. prefix namespaces the keys.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Key returns the hash key of a sport.
func (r *Redis) Key(sport string) string {
	return r.prefix + "ratings:" + sport
}

// Load reads the sport's hash.
func (r *Redis) Load(ctx context.Context, sport string) (elo.Table, error) {
	fields, err := r.client.HGetAll(ctx, r.Key(sport)).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.Key(sport), err)
	}
	return decodeHash(fields)
}

// Save replaces the sport's hash atomically with MULTI/EXEC.
func (r *Redis) Save(ctx context.Context, sport string, table elo.Table) error {
	values, err := encodeHash(table)
	if err != nil {
		return err
	}

	key := r.Key(sport)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.HSet(ctx, key, values)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func encodeHash(table elo.Table) (map[string]any, error) {
	values := make(map[string]any, len(table))
	for team, rec := range table {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", team, err)
		}
		values[team] = string(data)
	}
	return values, nil
}

func decodeHash(fields map[string]string) (elo.Table, error) {
	table := make(elo.Table, len(fields))
	for team, raw := range fields {
		var rec elo.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", team, err)
		}
		table[team] = rec
	}
	return table, nil
}
