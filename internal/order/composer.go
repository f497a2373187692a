package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/cart"
	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/promo"
)

var (
	ErrEmptyCart         = errors.New("panier vide")
	ErrInvalidDelivery   = errors.New("mode de livraison inconnu")
	ErrInvalidTransition = errors.New("transition de statut interdite")
)

// ValidationError liste les champs client manquants pour le mode de
// livraison choisi.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "informations requises manquantes: " + strings.Join(e.Missing, ", ")
}

// missingFields retourne les champs requis absents du formulaire. Chaque mode
// de livraison porte son propre sous-ensemble ; seule la présence est
// vérifiée, jamais le format.
func missingFields(delivery models.DeliveryMethod, form models.CustomerForm) []string {
	fields := map[string]string{
		"prenom":  form.Prenom,
		"nom":     form.Nom,
		"email":   form.Email,
		"phone":   form.Phone,
		"address": form.Address,
		"city":    form.City,
		"zip":     form.Zip,
	}

	var required []string
	switch delivery {
	case models.DeliveryDomicile:
		required = []string{"nom", "prenom", "email", "address", "city", "zip"}
	case models.DeliveryMarseille:
		required = []string{"nom", "phone", "address", "city", "email"}
	case models.DeliveryClick:
		required = []string{"prenom", "email"}
	}

	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Compose assemble l'instantané de commande à partir du panier, de la
// réduction et du formulaire. Aucune écriture : toute violation de
// précondition ressort en erreur avant le moindre appel externe.
func Compose(items []models.CartItem, discount *promo.Discount, delivery models.DeliveryMethod, form models.CustomerForm) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if !delivery.Valid() {
		return models.Order{}, ErrInvalidDelivery
	}
	if missing := missingFields(delivery, form); len(missing) > 0 {
		return models.Order{}, &ValidationError{Missing: missing}
	}

	subtotal := cart.Subtotal(items)
	amount := discount.Amount(subtotal)

	o := models.Order{
		ID:        gocql.TimeUUID(),
		Items:     items,
		Subtotal:  subtotal,
		Discount:  amount,
		Total:     promo.Total(subtotal, amount),
		Delivery:  delivery,
		Customer:  form,
		Status:    models.StatusNouvelle,
		CreatedAt: time.Now(),
	}
	if discount != nil {
		o.Promo = &models.AppliedPromo{Code: discount.Code, Type: discount.Type, Value: discount.Value}
	}
	return o, nil
}

// Repository persiste les commandes (création en append-only, puis mise à
// jour du seul statut par le back-office).
type Repository interface {
	Insert(ctx context.Context, o models.Order) error
	Get(ctx context.Context, id gocql.UUID) (models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id gocql.UUID, status models.OrderStatus) error
}

// PaymentSession est la réponse du collaborateur de paiement.
type PaymentSession struct {
	ID  string
	URL string
}

// PaymentClient crée une session de paiement externe à partir des lignes et
// du total, et rend l'URL de redirection.
type PaymentClient interface {
	CreateSession(ctx context.Context, items []models.CartItem, total float64) (PaymentSession, error)
}

// PendingStore garde la commande composée entre la création de la session de
// paiement et le retour sur la page de succès.
type PendingStore interface {
	Put(ctx context.Context, sessionID string, o models.Order) error
	Take(ctx context.Context, sessionID string) (models.Order, error)
}

// Notifier prévient le client d'un changement de statut de sa commande.
type Notifier interface {
	StatusChanged(o models.Order) error
}

// Composer orchestre la soumission des commandes : en direct (paiement
// manuel) ou via redirection vers le collaborateur de paiement.
type Composer struct {
	Cart     *cart.Store
	Repo     Repository
	Payment  PaymentClient
	Pending  PendingStore
	Notifier Notifier
}

// SubmitDirect crée la commande immédiatement, non payée, et vide le panier.
// Utilisé pour les règlements manuels (espèces, virement).
func (c *Composer) SubmitDirect(ctx context.Context, cartID string, discount *promo.Discount, delivery models.DeliveryMethod, form models.CustomerForm) (models.Order, error) {
	items := c.Cart.Items(ctx, cartID)

	o, err := Compose(items, discount, delivery, form)
	if err != nil {
		return models.Order{}, err
	}

	if err := c.Repo.Insert(ctx, o); err != nil {
		return models.Order{}, fmt.Errorf("enregistrement commande: %w", err)
	}
	if err := c.Cart.Clear(ctx, cartID); err != nil {
		log.Printf("⚠️ Panier %s non vidé après commande %s: %v", cartID, o.ID, err)
	}

	log.Printf("🧾 Commande %s enregistrée (%.2f€, %s)", o.ID, o.Total, delivery)
	return o, nil
}

// SubmitWithPayment compose la commande puis demande une session de paiement.
// Rien n'est persisté ni vidé avant le retour du collaborateur : un échec ou
// une URL absente laissent le panier intact. En cas de succès, la commande
// est mise en attente sous l'identifiant de session et l'URL de redirection
// est rendue à l'appelant.
func (c *Composer) SubmitWithPayment(ctx context.Context, cartID string, discount *promo.Discount, delivery models.DeliveryMethod, form models.CustomerForm) (string, error) {
	items := c.Cart.Items(ctx, cartID)

	o, err := Compose(items, discount, delivery, form)
	if err != nil {
		return "", err
	}

	session, err := c.Payment.CreateSession(ctx, o.Items, o.Total)
	if err != nil {
		return "", fmt.Errorf("création du paiement: %w", err)
	}
	if session.URL == "" {
		return "", errors.New("pas d'URL de redirection paiement")
	}

	if err := c.Pending.Put(ctx, session.ID, o); err != nil {
		return "", fmt.Errorf("mise en attente de la commande: %w", err)
	}

	log.Printf("💳 Session de paiement %s créée (%.2f€)", session.ID, o.Total)
	return session.URL, nil
}

// Finalize est appelé par la page de succès du paiement : la commande en
// attente est persistée payée et le panier est vidé.
func (c *Composer) Finalize(ctx context.Context, cartID, sessionID string) (models.Order, error) {
	o, err := c.Pending.Take(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}

	o.Paid = true
	if err := c.Repo.Insert(ctx, o); err != nil {
		return models.Order{}, fmt.Errorf("enregistrement commande payée: %w", err)
	}
	if err := c.Cart.Clear(ctx, cartID); err != nil {
		log.Printf("⚠️ Panier %s non vidé après paiement %s: %v", cartID, sessionID, err)
	}

	log.Printf("✅ Commande %s payée et enregistrée (%.2f€)", o.ID, o.Total)
	return o, nil
}

// UpdateStatus fait avancer le statut d'une commande (back-office).
// La transition est strictement monotone : nouvelle → vue → prete, jamais en
// arrière. Le client est prévenu par e-mail ; un échec d'envoi ne bloque pas
// la transition.
func (c *Composer) UpdateStatus(ctx context.Context, id gocql.UUID, next models.OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: statut inconnu %q", ErrInvalidTransition, next)
	}

	o, err := c.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !o.Status.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, o.Status, next)
	}

	if err := c.Repo.UpdateStatus(ctx, id, next); err != nil {
		return err
	}

	o.Status = next
	if c.Notifier != nil {
		if err := c.Notifier.StatusChanged(o); err != nil {
			log.Printf("⚠️ E-mail statut non envoyé pour %s: %v", id, err)
		}
	}
	return nil
}
