package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hash fields reserved for server-assigned metadata. They are stripped
// from Fields on read and cannot be set by callers.
const (
	metaCreatedAt = "__createdAt"
	metaUpdatedAt = "__updatedAt"
)

// Redis stores each document as one hash at key
// "sheetfire:<collection>:<id>", with every field JSON-encoded. HSET
// gives merge semantics for free; replace deletes the hash first.
type Redis struct {
	client *redis.Client
}

// NewRedis connects a client and verifies the server is reachable.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", classifyRedis(err))
	}
	return &Redis{client: client}, nil
}

func docKey(collection, id string) string {
	return "sheetfire:" + collection + ":" + id
}

func (r *Redis) Write(ctx context.Context, collection, id string, fields map[string]any, merge bool) (Document, error) {
	key := docKey(collection, id)
	now := time.Now().UTC()

	encoded := make(map[string]string, len(fields)+2)
	for k, v := range fields {
		if k == metaCreatedAt || k == metaUpdatedAt {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return Document{}, fmt.Errorf("encode field %q: %w", k, err)
		}
		encoded[k] = string(raw)
	}
	encoded[metaUpdatedAt] = now.Format(time.RFC3339Nano)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !merge {
			pipe.Del(ctx, key)
		}
		args := make([]any, 0, len(encoded)*2)
		for k, v := range encoded {
			args = append(args, k, v)
		}
		pipe.HSet(ctx, key, args...)
		// First write wins for the creation timestamp.
		pipe.HSetNX(ctx, key, metaCreatedAt, now.Format(time.RFC3339Nano))
		return nil
	})
	if err != nil {
		return Document{}, fmt.Errorf("write %s: %w", Path(collection, id), classifyRedis(err))
	}

	return r.Get(ctx, collection, id)
}

func (r *Redis) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := r.client.HGetAll(ctx, docKey(collection, id)).Result()
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", Path(collection, id), classifyRedis(err))
	}
	if len(raw) == 0 {
		return Document{}, ErrNotFound
	}

	doc := Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case metaCreatedAt:
			doc.CreatedAt, _ = time.Parse(time.RFC3339Nano, v)
		case metaUpdatedAt:
			doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, v)
		default:
			var val any
			if err := json.Unmarshal([]byte(v), &val); err != nil {
				// Tolerate values written by other tooling.
				val = v
			}
			doc.Fields[k] = val
		}
	}
	return doc, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// classifyRedis maps redis AUTH/ACL failures onto ErrPermissionDenied.
func classifyRedis(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "NOPERM") || strings.HasPrefix(msg, "NOAUTH") || strings.HasPrefix(msg, "WRONGPASS") {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
	}
	return err
}
