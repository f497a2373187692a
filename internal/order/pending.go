package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// ErrNoPending signale qu'aucune commande n'attend sous cet identifiant de
// session (retour de paiement inconnu ou déjà consommé).
var ErrNoPending = errors.New("aucune commande en attente pour cette session")

// Une commande en attente de paiement expire si le client n'aboutit jamais.
const pendingTTL = 24 * time.Hour

// RedisPendingStore garde les commandes composées entre la création de la
// session de paiement et le retour sur la page de succès.
type RedisPendingStore struct {
	Client *redis.Client
}

func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{Client: client}
}

func pendingKey(sessionID string) string { return "pending_order:" + sessionID }

func (s *RedisPendingStore) Put(ctx context.Context, sessionID string, o models.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, pendingKey(sessionID), data, pendingTTL).Err()
}

// Take consomme la commande en attente : un second retour sur la même
// session ne crée pas de doublon.
func (s *RedisPendingStore) Take(ctx context.Context, sessionID string) (models.Order, error) {
	data, err := s.Client.GetDel(ctx, pendingKey(sessionID)).Bytes()
	if err == redis.Nil {
		return models.Order{}, ErrNoPending
	}
	if err != nil {
		return models.Order{}, err
	}

	var o models.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}
