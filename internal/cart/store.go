package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// Signaux publiés après mutation. Ils ne portent pas le panier : les vues
// abonnées relisent l'état complet à réception.
const (
	SignalUpdated = "updated"
	SignalCleared = "cleared"
)

// Backend est la frontière de persistance du panier. Load retourne (nil, nil)
// quand aucun panier n'existe.
type Backend interface {
	Load(ctx context.Context, cartID string) ([]byte, error)
	Save(ctx context.Context, cartID string, data []byte) error
	Delete(ctx context.Context, cartID string) error
	Publish(ctx context.Context, cartID, signal string) error
}

// Store est le panier : une collection de lignes fusionnables, identifiées
// par models.LineKey, persistée en bloc à chaque mutation.
//
// Le mutex sérialise les lectures-modifications-écritures du processus ;
// entre écrivains distincts c'est le dernier qui gagne, la notification
// poussant les autres vues à se resynchroniser.
type Store struct {
	backend Backend
	mu      sync.Mutex
	now     func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// Items retourne les lignes du panier. Un état persistant illisible ou
// corrompu vaut panier vide : jamais d'erreur remontée à l'appelant.
func (s *Store) Items(ctx context.Context, cartID string) []models.CartItem {
	data, err := s.backend.Load(ctx, cartID)
	if err != nil || len(data) == 0 {
		return []models.CartItem{}
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("⚠️ Panier %s illisible, on repart à vide: %v", cartID, err)
		return []models.CartItem{}
	}
	return items
}

// Add fusionne l'article dans le panier : si une ligne de même clé existe
// déjà, sa quantité est incrémentée ; sinon une nouvelle ligne est insérée.
func (s *Store) Add(ctx context.Context, cartID string, item models.CartItem, qty int) error {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx, cartID)
	key := item.Key()

	found := false
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		item.Variant = key.Variant
		item.Quantity = qty
		item.AddedAt = s.now().UnixMilli()
		items = append(items, item)
	}

	return s.save(ctx, cartID, items, SignalUpdated)
}

// SetQuantity fixe la quantité d'une ligne, bornée à 1 minimum. Une clé
// absente est un no-op : on ne supprime jamais une ligne par la quantité.
func (s *Store) SetQuantity(ctx context.Context, cartID string, key models.LineKey, qty int) error {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx, cartID)
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity = qty
			return s.save(ctx, cartID, items, SignalUpdated)
		}
	}
	return nil
}

// Remove supprime la ligne entière. No-op si la clé est absente.
func (s *Store) Remove(ctx context.Context, cartID string, key models.LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx, cartID)
	kept := items[:0]
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, cartID, kept, SignalUpdated)
}

// Clear vide le panier, typiquement après soumission d'une commande.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, cartID); err != nil {
		return err
	}
	if err := s.backend.Publish(ctx, cartID, SignalCleared); err != nil {
		log.Printf("⚠️ Notification panier %s non envoyée: %v", cartID, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, cartID string, items []models.CartItem, signal string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, cartID, data); err != nil {
		return err
	}
	if err := s.backend.Publish(ctx, cartID, signal); err != nil {
		log.Printf("⚠️ Notification panier %s non envoyée: %v", cartID, err)
	}
	return nil
}

// Subtotal calcule Σ(prix unitaire × quantité). Pur et déterministe.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
