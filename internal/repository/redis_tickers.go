package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
)

// ErrTickerNotFound marks a remove of a symbol that is not tracked.
var ErrTickerNotFound = errors.New("ticker not tracked")

// RedisTickerStore keeps the tracked-symbol set in a Redis set.
type RedisTickerStore struct {
	client *redis.Client
	key    string
}

// NewRedisTickerStore creates the store. key is the Redis set key.
func NewRedisTickerStore(client *redis.Client, key string) drepo.TickerStore {
	if key == "" {
		key = "tickers"
	}
	return &RedisTickerStore{client: client, key: key}
}

func (s *RedisTickerStore) List(ctx context.Context) ([]string, error) {
	symbols, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *RedisTickerStore) Add(ctx context.Context, symbols ...string) error {
	members := make([]interface{}, 0, len(symbols))
	for _, sym := range symbols {
		sym = NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		members = append(members, sym)
	}
	if len(members) == 0 {
		return fmt.Errorf("no valid symbols")
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("add tickers: %w", err)
	}
	return nil
}

func (s *RedisTickerStore) Remove(ctx context.Context, symbol string) error {
	n, err := s.client.SRem(ctx, s.key, NormalizeSymbol(symbol)).Result()
	if err != nil {
		return fmt.Errorf("remove ticker: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}
	return nil
}

// NormalizeSymbol canonicalizes user-provided ticker symbols.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
