package imgtag

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// redisScanCount is the SCAN batch size used by Clear.
const redisScanCount = 100

// RedisFetchCacheConfig configures RedisFetchCache.
type RedisFetchCacheConfig struct {
	// KeyPrefix namespaces the cache keys. Default: "imgtag:fetch:".
	KeyPrefix string

	// TTL is how long responses are cached. Default: 5 minutes.
	TTL time.Duration
}

// RedisFetchCache is a FetchCache shared through redis. Responses are stored
// msgpack-encoded.
type RedisFetchCache struct {
	client redis.UniversalClient
	config RedisFetchCacheConfig
}

// NewRedisFetchCache creates a cache on client.
func NewRedisFetchCache(client redis.UniversalClient, config RedisFetchCacheConfig) *RedisFetchCache {
	if config.KeyPrefix == StringValueEmpty {
		config.KeyPrefix = DefaultRedisKeyPrefix
	}
	if config.TTL <= 0 {
		config.TTL = DefaultFetchCacheTTL
	}
	return &RedisFetchCache{client: client, config: config}
}

// Get implements FetchCache. A missing key is a miss, not an error.
func (c *RedisFetchCache) Get(ctx context.Context, url string) (*Response, bool, error) {
	data, err := c.client.Get(ctx, c.config.KeyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp Response
	if err := msgpack.Unmarshal(data, &resp); err != nil {
		return nil, false, NewCodecError(ErrMsgCacheDecode, FormatMsgpack, err)
	}
	return &resp, true, nil
}

// Set implements FetchCache.
func (c *RedisFetchCache) Set(ctx context.Context, url string, resp *Response) error {
	if resp == nil {
		return nil
	}
	data, err := msgpack.Marshal(resp)
	if err != nil {
		return NewCodecError(ErrMsgCacheEncode, FormatMsgpack, err)
	}
	return c.client.Set(ctx, c.config.KeyPrefix+url, data, c.config.TTL).Err()
}

// Delete implements FetchCache.
func (c *RedisFetchCache) Delete(ctx context.Context, url string) error {
	return c.client.Del(ctx, c.config.KeyPrefix+url).Err()
}

// Clear removes every key under the prefix.
func (c *RedisFetchCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, c.config.KeyPrefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
