package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds "prefix:hash" from the msgpack encoding of parts. Structs
// encode their fields in declaration order, so equal inputs give equal keys.
func Key(prefix string, parts ...any) (string, error) {
	data, err := msgpack.Marshal(parts)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding cache key")
	}
	return fmt.Sprintf("%s:%s", prefix, Hash(data)), nil
}

// GetValue decodes a cached msgpack value into v. Undecodable entries are
// dropped and reported as misses.
func GetValue(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetValue msgpack-encodes v and stores it.
func SetValue(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding cache value")
	}
	return c.Set(ctx, key, data, ttl)
}
