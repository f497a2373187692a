package order

import (
	"context"
	"encoding/json"

	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// ScyllaRepository persiste les commandes dans le keyspace commandes.
// Les lignes, le promo et le formulaire client sont des instantanés figés,
// stockés en JSON.
type ScyllaRepository struct {
	Session *gocql.Session
}

func NewScyllaRepository(session *gocql.Session) *ScyllaRepository {
	return &ScyllaRepository{Session: session}
}

func (r *ScyllaRepository) Insert(ctx context.Context, o models.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	customerJSON, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}
	var promoJSON []byte
	if o.Promo != nil {
		promoJSON, err = json.Marshal(o.Promo)
		if err != nil {
			return err
		}
	}

	query := `INSERT INTO orders
		(id, items, subtotal, discount, total, promo, delivery, customer, paid, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return r.Session.Query(query,
		o.ID, string(itemsJSON), o.Subtotal, o.Discount, o.Total,
		string(promoJSON), string(o.Delivery), string(customerJSON),
		o.Paid, string(o.Status), o.CreatedAt,
	).WithContext(ctx).Exec()
}

func (r *ScyllaRepository) Get(ctx context.Context, id gocql.UUID) (models.Order, error) {
	query := `SELECT id, items, subtotal, discount, total, promo, delivery, customer, paid, status, created_at
			  FROM orders WHERE id = ? LIMIT 1`

	var o models.Order
	var itemsJSON, promoJSON, customerJSON, delivery, status string

	err := r.Session.Query(query, id).WithContext(ctx).Scan(
		&o.ID, &itemsJSON, &o.Subtotal, &o.Discount, &o.Total,
		&promoJSON, &delivery, &customerJSON, &o.Paid, &status, &o.CreatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}

	if err := decodeOrder(&o, itemsJSON, promoJSON, customerJSON, delivery, status); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *ScyllaRepository) List(ctx context.Context) ([]models.Order, error) {
	query := `SELECT id, items, subtotal, discount, total, promo, delivery, customer, paid, status, created_at
			  FROM orders`
	iter := r.Session.Query(query).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	var itemsJSON, promoJSON, customerJSON, delivery, status string

	for iter.Scan(&o.ID, &itemsJSON, &o.Subtotal, &o.Discount, &o.Total,
		&promoJSON, &delivery, &customerJSON, &o.Paid, &status, &o.CreatedAt) {
		decoded := o
		if err := decodeOrder(&decoded, itemsJSON, promoJSON, customerJSON, delivery, status); err != nil {
			continue // commande illisible, on n'interrompt pas la liste
		}
		orders = append(orders, decoded)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *ScyllaRepository) UpdateStatus(ctx context.Context, id gocql.UUID, status models.OrderStatus) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`
	return r.Session.Query(query, string(status), id).WithContext(ctx).Exec()
}

func decodeOrder(o *models.Order, itemsJSON, promoJSON, customerJSON, delivery, status string) error {
	o.Items = nil
	o.Promo = nil
	o.Customer = models.CustomerForm{}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return err
		}
	}
	if promoJSON != "" {
		if err := json.Unmarshal([]byte(promoJSON), &o.Promo); err != nil {
			return err
		}
	}
	if customerJSON != "" {
		if err := json.Unmarshal([]byte(customerJSON), &o.Customer); err != nil {
			return err
		}
	}
	o.Delivery = models.DeliveryMethod(delivery)
	o.Status = models.OrderStatus(status)
	return nil
}
