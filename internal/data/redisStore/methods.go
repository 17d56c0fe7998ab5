package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// this for the message store
func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.RPush(ctx, key, value).Err()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.getCount(ctx, key)
	return count > 0, err
}

func (s *Store) getCount(ctx context.Context, key string) (int64, error) {
	return s.client.Exists(ctx, key).Result()
}

func (s *Store) ListGet5PastMessage(ctx context.Context, key string) ([]string, error) {
	count, err := s.getCount(ctx, key)
	if count < 1 || err != nil {
		return []string{}, err
	}
	if count < 5 {
		return s.ListGetAll(ctx, key)
	}
	return s.listGetPreviousXMessages(ctx, key, -5)
}

func (s *Store) ListGetAll(ctx context.Context, key string) ([]string, error) {
	return s.listGetPreviousXMessages(ctx, key, int64(0))
}

func (s *Store) listGetPreviousXMessages(ctx context.Context, key string, start int64) ([]string, error) {
	result, err := s.client.LRange(ctx, key, start, -1).Result()
	return result, err
}

// hash methods back the document registry

func (s *Store) HashSet(ctx context.Context, key string, field string, value interface{}) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *Store) HashGet(ctx context.Context, key string, field string) (string, error) {
	return s.client.HGet(ctx, key, field).Result()
}

func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

func (s *Store) HashLen(ctx context.Context, key string) (int64, error) {
	return s.client.HLen(ctx, key).Result()
}

func (s *Store) HashDel(ctx context.Context, key string, fields ...string) error {
	return s.client.HDel(ctx, key, fields...).Err()
}

// Checking HLEN and then HSET from the client leaves a window where
// two writers both pass the cap. The script runs both on the server in
// one step. Overwriting an existing field never counts against the cap.
var hashSetCappedScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 and redis.call('HLEN', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3])
return 1
`)

// HashSetCapped sets field atomically unless the hash already holds
// max entries. Returns false when the cap rejected the write.
func (s *Store) HashSetCapped(ctx context.Context, key string, field string, value interface{}, max int64) (bool, error) {
	res, err := hashSetCappedScript.Run(ctx, s.client, []string{key}, field, max, value).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
