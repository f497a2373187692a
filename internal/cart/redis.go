package cart

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Les paniers anonymes expirent après 30 jours d'inactivité.
const cartTTL = 30 * 24 * time.Hour

// RedisBackend persiste le panier dans Redis (clé "cart:<id>") et publie les
// signaux de changement sur le canal du même nom. Les autres vues abonnées
// (WebSocket) relisent l'état à réception.
type RedisBackend struct {
	Client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{Client: client}
}

func cartKey(cartID string) string { return "cart:" + cartID }

func (b *RedisBackend) Load(ctx context.Context, cartID string) ([]byte, error) {
	data, err := b.Client.Get(ctx, cartKey(cartID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Save(ctx context.Context, cartID string, data []byte) error {
	return b.Client.Set(ctx, cartKey(cartID), data, cartTTL).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, cartID string) error {
	return b.Client.Del(ctx, cartKey(cartID)).Err()
}

func (b *RedisBackend) Publish(ctx context.Context, cartID, signal string) error {
	return b.Client.Publish(ctx, cartKey(cartID), signal).Err()
}

// Subscribe abonne aux signaux de changement d'un panier.
func (b *RedisBackend) Subscribe(ctx context.Context, cartID string) *redis.PubSub {
	return b.Client.Subscribe(ctx, cartKey(cartID))
}
