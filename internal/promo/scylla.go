package promo

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// ScyllaRepository lit et écrit les codes promo dans le keyspace catalogue.
type ScyllaRepository struct {
	Session *gocql.Session
}

func NewScyllaRepository(session *gocql.Session) *ScyllaRepository {
	return &ScyllaRepository{Session: session}
}

// FindActive cherche un code promo par code normalisé. L'inactivité vaut
// absence : les codes désactivés ne sont jamais résolus.
func (r *ScyllaRepository) FindActive(ctx context.Context, code string) (*models.PromoCode, error) {
	var p models.PromoCode
	query := `SELECT id, code, type, value, active, single_use, created_at
			  FROM promo_codes WHERE code = ? LIMIT 1`

	err := r.Session.Query(query, code).WithContext(ctx).
		Scan(&p.ID, &p.Code, &p.Type, &p.Value, &p.Active, &p.SingleUse, &p.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, nil
	}
	return &p, nil
}

// Insert crée un nouveau code promo (back-office).
func (r *ScyllaRepository) Insert(ctx context.Context, p models.PromoCode) error {
	query := `INSERT INTO promo_codes (id, code, type, value, active, single_use, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	return r.Session.Query(query,
		p.ID, p.Code, p.Type, p.Value, p.Active, p.SingleUse, p.CreatedAt,
	).WithContext(ctx).Exec()
}

// List retourne tous les codes promo (back-office).
func (r *ScyllaRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	query := `SELECT id, code, type, value, active, single_use, created_at FROM promo_codes`
	iter := r.Session.Query(query).WithContext(ctx).Iter()

	var codes []models.PromoCode
	var p models.PromoCode
	for iter.Scan(&p.ID, &p.Code, &p.Type, &p.Value, &p.Active, &p.SingleUse, &p.CreatedAt) {
		codes = append(codes, p)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return codes, nil
}

// SetActive active ou désactive un code.
func (r *ScyllaRepository) SetActive(ctx context.Context, id gocql.UUID, active bool) error {
	query := `UPDATE promo_codes SET active = ? WHERE id = ?`
	return r.Session.Query(query, active, id).WithContext(ctx).Exec()
}

// NewPromoCode construit un code prêt à insérer, normalisé et actif.
func NewPromoCode(code, kind string, value float64, singleUse bool) models.PromoCode {
	return models.PromoCode{
		ID:        gocql.TimeUUID(),
		Code:      Normalize(code),
		Type:      kind,
		Value:     value,
		Active:    true,
		SingleUse: singleUse,
		CreatedAt: time.Now(),
	}
}
