package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "foodlink/pkg/domain"
)

// Redis claims pairs with SET NX EX so every replica sees the same claims.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Claim(ctx context.Context, listingID id.ListingID, needID id.NeedID) (bool, error) {
	ok, err := r.client.SetNX(ctx, pairKey(listingID, needID), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim match pair: %w", err)
	}
	return ok, nil
}
