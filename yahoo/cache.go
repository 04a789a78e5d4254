/*
Copyright 2022

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache keeps the latest snapshot of each symbol as a redis hash mapping
// field name to value.
type RedisCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisCache returns a cache writing keys "<namespace>:<SYMBOL>". A zero ttl
// defaults to 15 minutes and an empty namespace to "quote".
func NewRedisCache(rdb *redis.Client, ttl time.Duration, namespace string) *RedisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "quote"
	}
	return &RedisCache{
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *RedisCache) key(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, strings.ReplaceAll(symbol, " ", "_"))
}

// Save replaces the cached hash of every record. Records without a symbol are
// skipped.
func (c *RedisCache) Save(ctx context.Context, records []*Record) error {
	pipe := c.rdb.TxPipeline()
	n := 0
	for _, rec := range records {
		if rec.ID == "" {
			log.Warn().Msg("skipping record without symbol")
			continue
		}
		values := make(map[string]interface{}, len(rec.fields))
		for f, v := range rec.fields {
			values[f.String()] = v
		}
		key := c.key(rec.ID)
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, c.ttl)
		n++
	}
	if n == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Msg("could not save quotes to redis")
		return err
	}
	log.Info().Int("NumRecords", n).Msg("saved quotes to redis")
	return nil
}

// Load rebuilds the cached record for symbol. A miss returns (nil, false, nil).
func (c *RedisCache) Load(ctx context.Context, symbol string) (*Record, bool, error) {
	values, err := c.rdb.HGetAll(ctx, c.key(symbol)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	fields := make(map[Field]string, len(values))
	for name, v := range values {
		f, ok := FieldByName(name)
		if !ok {
			log.Warn().Str("Symbol", symbol).Str("Field", name).Msg("ignoring unknown cached field")
			continue
		}
		fields[f] = v
	}
	return NewRecord(symbol, fields), true, nil
}
