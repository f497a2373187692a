package catalog

import (
	"context"
	"encoding/json"

	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/models"
)

const productColumns = `id, name, category, description, price, price_by_grams, flavors,
	accessory_type, photos, promo, promo_base_price, promo_price,
	best_seller, show_on_home, show_on_promo, created_at`

// ScyllaRepository lit et écrit les produits dans le keyspace catalogue.
// La grille de prix par grammes est stockée en JSON (colonne texte), le
// reste en colonnes natives.
type ScyllaRepository struct {
	Session *gocql.Session
}

func NewScyllaRepository(session *gocql.Session) *ScyllaRepository {
	return &ScyllaRepository{Session: session}
}

// ProductUpdate est un jeu de champs partiel pour la mise à jour : seuls les
// champs non nil sont écrits, les autres gardent leur valeur (photos et
// drapeaux absents du formulaire d'édition compris).
type ProductUpdate struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	Price          *float64             `json:"price"`
	PriceByGrams   *[]models.GramPrice  `json:"priceByGrams"`
	Flavors        *[]string            `json:"flavors"`
	AccessoryType  *string              `json:"accessoryType"`
	Photos         *[]string            `json:"photos"`
	Promo          *bool                `json:"promo"`
	PromoBasePrice *float64             `json:"promoBasePrice"`
	PromoPrice     *float64             `json:"promoPrice"`
	BestSeller     *bool                `json:"bestSeller"`
	ShowOnHome     *bool                `json:"showOnHome"`
	ShowOnPromo    *bool                `json:"showOnPromo"`
}

func (r *ScyllaRepository) Insert(ctx context.Context, p models.Product) error {
	gramsJSON, err := json.Marshal(p.PriceByGrams)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (` + productColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return r.Session.Query(query,
		p.ID, p.Name, string(p.Category), p.Description,
		floatOrZero(p.Price), string(gramsJSON), p.Flavors,
		p.AccessoryType, p.Photos, p.Promo,
		floatOrZero(p.PromoBasePrice), floatOrZero(p.PromoPrice),
		p.BestSeller, p.ShowOnHome, p.ShowOnPromo, p.CreatedAt,
	).WithContext(ctx).Exec()
}

func (r *ScyllaRepository) Get(ctx context.Context, id gocql.UUID) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`

	var p models.Product
	var category, gramsJSON string
	var price, promoBase, promoPrice float64

	err := r.Session.Query(query, id).WithContext(ctx).Scan(
		&p.ID, &p.Name, &category, &p.Description,
		&price, &gramsJSON, &p.Flavors,
		&p.AccessoryType, &p.Photos, &p.Promo,
		&promoBase, &promoPrice,
		&p.BestSeller, &p.ShowOnHome, &p.ShowOnPromo, &p.CreatedAt,
	)
	if err != nil {
		return models.Product{}, err
	}

	decodeProduct(&p, category, gramsJSON, price, promoBase, promoPrice)
	return p, nil
}

// ListByCategory retourne les produits d'un rayon.
func (r *ScyllaRepository) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = ? ALLOW FILTERING`
	return r.scanProducts(r.Session.Query(query, string(category)).WithContext(ctx).Iter())
}

// ListBestSellers retourne les produits mis en avant.
func (r *ScyllaRepository) ListBestSellers(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE best_seller = true ALLOW FILTERING`
	return r.scanProducts(r.Session.Query(query).WithContext(ctx).Iter())
}

// ListPromo retourne les produits affichés en promotion.
func (r *ScyllaRepository) ListPromo(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE show_on_promo = true ALLOW FILTERING`
	return r.scanProducts(r.Session.Query(query).WithContext(ctx).Iter())
}

// ListHome retourne les produits visibles sur la page principale.
func (r *ScyllaRepository) ListHome(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE show_on_home = true ALLOW FILTERING`
	return r.scanProducts(r.Session.Query(query).WithContext(ctx).Iter())
}

// ListAll retourne tout le catalogue (back-office).
func (r *ScyllaRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	return r.scanProducts(r.Session.Query(query).WithContext(ctx).Iter())
}

// Update n'écrit que les champs fournis, à la manière d'un PATCH.
func (r *ScyllaRepository) Update(ctx context.Context, id gocql.UUID, in ProductUpdate) error {
	updates := []string{}
	values := []interface{}{}

	if in.Name != nil {
		updates = append(updates, "name = ?")
		values = append(values, *in.Name)
	}
	if in.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *in.Description)
	}
	if in.Price != nil {
		updates = append(updates, "price = ?")
		values = append(values, *in.Price)
	}
	if in.PriceByGrams != nil {
		gramsJSON, err := json.Marshal(*in.PriceByGrams)
		if err != nil {
			return err
		}
		updates = append(updates, "price_by_grams = ?")
		values = append(values, string(gramsJSON))
	}
	if in.Flavors != nil {
		updates = append(updates, "flavors = ?")
		values = append(values, *in.Flavors)
	}
	if in.AccessoryType != nil {
		updates = append(updates, "accessory_type = ?")
		values = append(values, *in.AccessoryType)
	}
	if in.Photos != nil {
		updates = append(updates, "photos = ?")
		values = append(values, *in.Photos)
	}
	if in.Promo != nil {
		updates = append(updates, "promo = ?")
		values = append(values, *in.Promo)
	}
	if in.PromoBasePrice != nil {
		updates = append(updates, "promo_base_price = ?")
		values = append(values, *in.PromoBasePrice)
	}
	if in.PromoPrice != nil {
		updates = append(updates, "promo_price = ?")
		values = append(values, *in.PromoPrice)
	}
	if in.BestSeller != nil {
		updates = append(updates, "best_seller = ?")
		values = append(values, *in.BestSeller)
	}
	if in.ShowOnHome != nil {
		updates = append(updates, "show_on_home = ?")
		values = append(values, *in.ShowOnHome)
	}
	if in.ShowOnPromo != nil {
		updates = append(updates, "show_on_promo = ?")
		values = append(values, *in.ShowOnPromo)
	}

	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE products SET " + updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"
	values = append(values, id)

	return r.Session.Query(query, values...).WithContext(ctx).Exec()
}

// Delete supprime définitivement le produit. La confirmation a eu lieu côté
// interface avant cet appel.
func (r *ScyllaRepository) Delete(ctx context.Context, id gocql.UUID) error {
	return r.Session.Query(`DELETE FROM products WHERE id = ?`, id).WithContext(ctx).Exec()
}

func (r *ScyllaRepository) scanProducts(iter *gocql.Iter) ([]models.Product, error) {
	var products []models.Product
	var p models.Product
	var category, gramsJSON string
	var price, promoBase, promoPrice float64

	for iter.Scan(
		&p.ID, &p.Name, &category, &p.Description,
		&price, &gramsJSON, &p.Flavors,
		&p.AccessoryType, &p.Photos, &p.Promo,
		&promoBase, &promoPrice,
		&p.BestSeller, &p.ShowOnHome, &p.ShowOnPromo, &p.CreatedAt,
	) {
		decoded := p
		decodeProduct(&decoded, category, gramsJSON, price, promoBase, promoPrice)
		products = append(products, decoded)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func decodeProduct(p *models.Product, category, gramsJSON string, price, promoBase, promoPrice float64) {
	p.Category = models.Category(category)
	p.Price = floatPtr(price)
	p.PromoBasePrice = floatPtr(promoBase)
	p.PromoPrice = floatPtr(promoPrice)

	p.PriceByGrams = nil
	if gramsJSON != "" && gramsJSON != "null" {
		// Grille illisible = produit sans grille, on ne casse pas la liste
		_ = json.Unmarshal([]byte(gramsJSON), &p.PriceByGrams)
	}
}

// Les doubles Scylla n'ont pas de null exploitable côté gocql : zéro vaut
// absence pour les prix, qui sont toujours strictement positifs.
func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatPtr(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
