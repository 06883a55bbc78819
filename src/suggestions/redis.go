package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "guildpulse:suggestion:"
	redisIndexKey     = "guildpulse:suggestions"
	redisEventStream  = "guildpulse.suggestions"
	redisMaxTxRetries = 5
)

// RedisRegistry stores suggestion records as JSON strings in Redis. Status
// transitions use WATCH/MULTI so concurrent resolves cannot both win.
type RedisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry wraps an existing client.
func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisRegistry) Create(ctx context.Context, s Suggestion) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode suggestion: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKey(s.ID), raw, 0)
		p.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(s.CreatedAt.UnixMilli()), Member: s.ID})
		return nil
	})
	return err
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (Suggestion, error) {
	return decodeSuggestion(r.rdb.Get(ctx, redisKey(id)).Bytes())
}

func decodeSuggestion(raw []byte, err error) (Suggestion, error) {
	if errors.Is(err, redis.Nil) {
		return Suggestion{}, ErrNotFound
	}
	if err != nil {
		return Suggestion{}, err
	}
	var s Suggestion
	if err := json.Unmarshal(raw, &s); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	return s, nil
}

// update applies fn to the stored record inside an optimistic transaction.
func (r *RedisRegistry) update(ctx context.Context, id string, fn func(*Suggestion) error) (Suggestion, error) {
	key := redisKey(id)
	var result Suggestion

	txf := func(tx *redis.Tx) error {
		s, err := decodeSuggestion(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			result = s
			return err
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode suggestion: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, raw, 0)
			return nil
		})
		if err == nil {
			result = s
		}
		return err
	}

	for i := 0; i < redisMaxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return Suggestion{}, fmt.Errorf("suggestion %s: too much contention", id)
}

func (r *RedisRegistry) AttachMessage(ctx context.Context, id, channelID, messageID string) error {
	_, err := r.update(ctx, id, func(s *Suggestion) error {
		s.ChannelID = channelID
		s.MessageID = messageID
		return nil
	})
	return err
}

func (r *RedisRegistry) Transition(ctx context.Context, id string, to Status, actorID string, at time.Time) (Suggestion, error) {
	return r.update(ctx, id, func(s *Suggestion) error {
		return s.Resolve(to, actorID, at)
	})
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	var deleted *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		deleted = p.Del(ctx, redisKey(id))
		p.ZRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRegistry) List(ctx context.Context, status Status) ([]Suggestion, error) {
	ids, err := r.rdb.ZRevRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Suggestion{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s Suggestion
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			continue
		}
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// RedisEvents appends suggestion lifecycle events to a Redis stream.
type RedisEvents struct {
	rdb    *redis.Client
	stream string
}

// NewRedisEvents publishes to the default guildpulse.suggestions stream.
func NewRedisEvents(rdb *redis.Client) *RedisEvents {
	return &RedisEvents{rdb: rdb, stream: redisEventStream}
}

func (e *RedisEvents) Publish(ctx context.Context, ev Event) error {
	return e.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: e.stream,
		Values: ev.Values(),
	}).Err()
}
