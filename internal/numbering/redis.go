package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each (tenant, type) config in a hash and performs
// allocation through a Lua script, so the read-and-advance step stays a
// single atomic operation on the server. Useful where the database is not
// the bottleneck of choice for a hot counter.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore constructs a store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func formatKey(tenant string, docType DocumentType) string {
	return fmt.Sprintf("docengine:numfmt:%s:%s", tenant, docType)
}

// ensureScript seeds default fields for an unseen pair without clobbering
// existing ones.
var ensureScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'prefix', '', 'separator', '-', 'padding', 6, 'counter', 1)
end
return redis.call('HMGET', KEYS[1], 'prefix', 'separator', 'padding', 'counter')
`)

// allocateScript issues the current counter value and advances it in one
// server-side step.
var allocateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'prefix', '', 'separator', '-', 'padding', 6, 'counter', 1)
end
local issued = tonumber(redis.call('HGET', KEYS[1], 'counter'))
redis.call('HSET', KEYS[1], 'counter', issued + 1)
local f = redis.call('HMGET', KEYS[1], 'prefix', 'separator', 'padding')
return {f[1], f[2], f[3], tostring(issued)}
`)

func (s *RedisStore) Get(ctx context.Context, tenant string, docType DocumentType) (FormatConfig, error) {
	res, err := ensureScript.Run(ctx, s.client, []string{formatKey(tenant, docType)}).Slice()
	if err != nil {
		return FormatConfig{}, classifyRedis(fmt.Errorf("numbering: get config: %w", err))
	}
	return parseHashFields(res)
}

func (s *RedisStore) IncrementAndGet(ctx context.Context, tenant string, docType DocumentType) (int64, FormatConfig, error) {
	res, err := allocateScript.Run(ctx, s.client, []string{formatKey(tenant, docType)}).Slice()
	if err != nil {
		return 0, FormatConfig{}, classifyRedis(fmt.Errorf("numbering: increment: %w", err))
	}
	cfg, err := parseHashFields(res)
	if err != nil {
		return 0, FormatConfig{}, err
	}
	issued := cfg.Counter
	cfg.Counter = issued + 1
	return issued, cfg, nil
}

func (s *RedisStore) UpdateFormat(ctx context.Context, tenant string, docType DocumentType, upd FormatUpdate) (FormatConfig, error) {
	key := formatKey(tenant, docType)
	if _, err := ensureScript.Run(ctx, s.client, []string{key}).Result(); err != nil {
		return FormatConfig{}, classifyRedis(fmt.Errorf("numbering: update format: %w", err))
	}

	fields := make(map[string]any)
	if upd.Prefix != nil {
		fields["prefix"] = *upd.Prefix
	}
	if upd.Separator != nil {
		fields["separator"] = *upd.Separator
	}
	if upd.Padding != nil {
		fields["padding"] = *upd.Padding
	}
	if len(fields) > 0 {
		if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
			return FormatConfig{}, classifyRedis(fmt.Errorf("numbering: update format: %w", err))
		}
	}
	return s.Get(ctx, tenant, docType)
}

func (s *RedisStore) ResetCounter(ctx context.Context, tenant string, docType DocumentType, start int64) (FormatConfig, error) {
	key := formatKey(tenant, docType)
	if _, err := ensureScript.Run(ctx, s.client, []string{key}).Result(); err != nil {
		return FormatConfig{}, classifyRedis(fmt.Errorf("numbering: reset counter: %w", err))
	}
	if err := s.client.HSet(ctx, key, "counter", start).Err(); err != nil {
		return FormatConfig{}, classifyRedis(fmt.Errorf("numbering: reset counter: %w", err))
	}
	return s.Get(ctx, tenant, docType)
}

func parseHashFields(res []any) (FormatConfig, error) {
	if len(res) != 4 {
		return FormatConfig{}, fmt.Errorf("numbering: unexpected hash shape (%d fields)", len(res))
	}
	cfg := FormatConfig{}
	var err error
	if cfg.Prefix, err = asString(res[0]); err != nil {
		return FormatConfig{}, err
	}
	if cfg.Separator, err = asString(res[1]); err != nil {
		return FormatConfig{}, err
	}
	rawPadding, err := asString(res[2])
	if err != nil {
		return FormatConfig{}, err
	}
	if cfg.Padding, err = strconv.Atoi(rawPadding); err != nil {
		return FormatConfig{}, fmt.Errorf("numbering: parse padding: %w", err)
	}
	rawCounter, err := asString(res[3])
	if err != nil {
		return FormatConfig{}, err
	}
	if cfg.Counter, err = strconv.ParseInt(rawCounter, 10, 64); err != nil {
		return FormatConfig{}, fmt.Errorf("numbering: parse counter: %w", err)
	}
	return cfg, nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("numbering: unexpected field type %T", v)
	}
	return s, nil
}

func classifyRedis(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
