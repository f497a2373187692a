package order

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/elosyboy/opochonmagique/internal/cart"
	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/promo"
)

// =====================
// Mocks
// =====================

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) Insert(ctx context.Context, o models.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *orderRepoMock) Get(ctx context.Context, id gocql.UUID) (models.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(models.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, id gocql.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type paymentMock struct{ mock.Mock }

func (m *paymentMock) CreateSession(ctx context.Context, items []models.CartItem, total float64) (PaymentSession, error) {
	args := m.Called(ctx, items, total)
	s, _ := args.Get(0).(PaymentSession)
	return s, args.Error(1)
}

type pendingMock struct{ mock.Mock }

func (m *pendingMock) Put(ctx context.Context, sessionID string, o models.Order) error {
	args := m.Called(ctx, sessionID, o)
	return args.Error(0)
}

func (m *pendingMock) Take(ctx context.Context, sessionID string) (models.Order, error) {
	args := m.Called(ctx, sessionID)
	o, _ := args.Get(0).(models.Order)
	return o, args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) StatusChanged(o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

// memoryBackend local au paquet pour un vrai cart.Store sans Redis.
type memoryBackend struct{ data map[string][]byte }

func newMemoryBackend() *memoryBackend { return &memoryBackend{data: map[string][]byte{}} }

func (m *memoryBackend) Load(_ context.Context, id string) ([]byte, error)  { return m.data[id], nil }
func (m *memoryBackend) Save(_ context.Context, id string, d []byte) error  { m.data[id] = d; return nil }
func (m *memoryBackend) Delete(_ context.Context, id string) error          { delete(m.data, id); return nil }
func (m *memoryBackend) Publish(_ context.Context, _, _ string) error       { return nil }

// =====================
// Fixtures
// =====================

func cartWith(t *testing.T, items ...models.CartItem) (*cart.Store, string) {
	t.Helper()
	store := cart.NewStore(newMemoryBackend())
	for _, item := range items {
		assert.NoError(t, store.Add(context.Background(), "c1", item, item.Quantity))
	}
	return store, "c1"
}

func fleurLine() models.CartItem {
	return models.CartItem{
		Category:  models.CategoryFleur,
		ProductID: "abc",
		Name:      "Amnesia",
		Variant:   "3g",
		UnitPrice: 25.00,
		Quantity:  2,
	}
}

func clickForm() models.CustomerForm {
	return models.CustomerForm{Prenom: "Mohamed", Email: "client@example.com"}
}

func domicileForm() models.CustomerForm {
	return models.CustomerForm{
		Nom: "Dupont", Prenom: "Marie", Email: "marie@example.com",
		Address: "3 rue des Lilas", City: "Marseille", Zip: "13001",
	}
}

// =====================
// Compose
// =====================

func TestComposeRejectsEmptyCart(t *testing.T) {
	_, err := Compose(nil, nil, models.DeliveryClick, clickForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestComposeRejectsMissingFieldsPerDeliveryMethod(t *testing.T) {
	items := []models.CartItem{fleurLine()}

	cases := []struct {
		delivery models.DeliveryMethod
		form     models.CustomerForm
		missing  string
	}{
		{models.DeliveryClick, models.CustomerForm{Email: "a@b.c"}, "prenom"},
		{models.DeliveryClick, models.CustomerForm{Prenom: "Mohamed"}, "email"},
		{models.DeliveryMarseille, models.CustomerForm{Nom: "Dupont", Phone: "0600000000", Address: "rue X", City: "Marseille"}, "email"},
		{models.DeliveryDomicile, models.CustomerForm{Nom: "Dupont", Prenom: "Marie", Email: "a@b.c", Address: "rue X", City: "Paris"}, "zip"},
	}

	for _, tc := range cases {
		_, err := Compose(items, nil, tc.delivery, tc.form)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "%s doit rejeter", tc.delivery)
		assert.Contains(t, verr.Missing, tc.missing)
	}
}

func TestComposeRejectsUnknownDelivery(t *testing.T) {
	_, err := Compose([]models.CartItem{fleurLine()}, nil, "drone", clickForm())
	assert.ErrorIs(t, err, ErrInvalidDelivery)
}

func TestComposeAppliesDiscountSnapshot(t *testing.T) {
	items := []models.CartItem{fleurLine()} // 2 × 25.00 = 50.00
	d := &promo.Discount{Code: "OPO20", Type: models.PromoPercent, Value: 20}

	o, err := Compose(items, d, models.DeliveryClick, clickForm())
	assert.NoError(t, err)
	assert.InDelta(t, 50.00, o.Subtotal, 1e-9)
	assert.InDelta(t, 10.00, o.Discount, 1e-9)
	assert.InDelta(t, 40.00, o.Total, 1e-9)
	assert.Equal(t, "OPO20", o.Promo.Code)
	assert.Equal(t, models.StatusNouvelle, o.Status)
	assert.False(t, o.Paid)
}

// =====================
// SubmitDirect
// =====================

func TestSubmitDirectPersistsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	repo := new(orderRepoMock)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	c := &Composer{Cart: store, Repo: repo}
	o, err := c.SubmitDirect(ctx, cartID, nil, models.DeliveryClick, clickForm())

	assert.NoError(t, err)
	assert.False(t, o.Paid)
	repo.AssertNumberOfCalls(t, "Insert", 1)
	assert.Empty(t, store.Items(ctx, cartID), "le panier est vidé après soumission directe")
}

func TestSubmitDirectEmptyCartMakesNoExternalCall(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(newMemoryBackend())

	repo := new(orderRepoMock)
	c := &Composer{Cart: store, Repo: repo}

	_, err := c.SubmitDirect(ctx, "vide", nil, models.DeliveryClick, clickForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// =====================
// SubmitWithPayment
// =====================

func TestSubmitWithPaymentReturnsRedirectWithoutTouchingCart(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	payment := new(paymentMock)
	payment.On("CreateSession", mock.Anything, mock.Anything, 50.00).
		Return(PaymentSession{ID: "sess_1", URL: "https://pay.example/sess_1"}, nil)

	pending := new(pendingMock)
	pending.On("Put", mock.Anything, "sess_1", mock.Anything).Return(nil)

	repo := new(orderRepoMock)
	c := &Composer{Cart: store, Repo: repo, Payment: payment, Pending: pending}

	url, err := c.SubmitWithPayment(ctx, cartID, nil, models.DeliveryClick, clickForm())
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example/sess_1", url)

	// Rien n'est persisté ni vidé avant le succès du paiement
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Len(t, store.Items(ctx, cartID), 1)
}

func TestSubmitWithPaymentEmptyCartRejectedBeforePaymentCall(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(newMemoryBackend())

	payment := new(paymentMock)
	c := &Composer{Cart: store, Payment: payment}

	_, err := c.SubmitWithPayment(ctx, "vide", nil, models.DeliveryClick, clickForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	payment.AssertNumberOfCalls(t, "CreateSession", 0)
}

func TestSubmitWithPaymentFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	payment := new(paymentMock)
	payment.On("CreateSession", mock.Anything, mock.Anything, mock.Anything).
		Return(PaymentSession{}, errors.New("stripe indisponible"))

	c := &Composer{Cart: store, Payment: payment}

	_, err := c.SubmitWithPayment(ctx, cartID, nil, models.DeliveryClick, clickForm())
	assert.Error(t, err)
	assert.Len(t, store.Items(ctx, cartID), 1, "échec paiement → panier intact")
}

func TestSubmitWithPaymentMissingRedirectURLIsAnError(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	payment := new(paymentMock)
	payment.On("CreateSession", mock.Anything, mock.Anything, mock.Anything).
		Return(PaymentSession{ID: "sess_2", URL: ""}, nil)

	c := &Composer{Cart: store, Payment: payment}

	_, err := c.SubmitWithPayment(ctx, cartID, nil, models.DeliveryClick, clickForm())
	assert.Error(t, err)
	assert.Len(t, store.Items(ctx, cartID), 1)
}

// =====================
// Finalize
// =====================

func TestFinalizePersistsPaidOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	composed, err := Compose(store.Items(ctx, cartID), nil, models.DeliveryDomicile, domicileForm())
	assert.NoError(t, err)

	pending := new(pendingMock)
	pending.On("Take", mock.Anything, "sess_1").Return(composed, nil)

	repo := new(orderRepoMock)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(o models.Order) bool { return o.Paid })).Return(nil)

	c := &Composer{Cart: store, Repo: repo, Pending: pending}

	o, err := c.Finalize(ctx, cartID, "sess_1")
	assert.NoError(t, err)
	assert.True(t, o.Paid)
	repo.AssertExpectations(t)
	assert.Empty(t, store.Items(ctx, cartID))
}

func TestFinalizeUnknownSession(t *testing.T) {
	ctx := context.Background()
	store, cartID := cartWith(t, fleurLine())

	pending := new(pendingMock)
	pending.On("Take", mock.Anything, "sess_inconnue").Return(models.Order{}, ErrNoPending)

	repo := new(orderRepoMock)
	c := &Composer{Cart: store, Repo: repo, Pending: pending}

	_, err := c.Finalize(ctx, cartID, "sess_inconnue")
	assert.ErrorIs(t, err, ErrNoPending)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Len(t, store.Items(ctx, cartID), 1)
}

// =====================
// UpdateStatus
// =====================

func TestUpdateStatusAdvancesAndNotifies(t *testing.T) {
	ctx := context.Background()
	id := gocql.TimeUUID()

	repo := new(orderRepoMock)
	repo.On("Get", mock.Anything, id).Return(models.Order{ID: id, Status: models.StatusNouvelle}, nil)
	repo.On("UpdateStatus", mock.Anything, id, models.StatusVue).Return(nil)

	notifier := new(notifierMock)
	notifier.On("StatusChanged", mock.MatchedBy(func(o models.Order) bool {
		return o.Status == models.StatusVue
	})).Return(nil)

	c := &Composer{Repo: repo, Notifier: notifier}
	assert.NoError(t, c.UpdateStatus(ctx, id, models.StatusVue))
	notifier.AssertExpectations(t)
}

func TestUpdateStatusRejectsRegression(t *testing.T) {
	ctx := context.Background()
	id := gocql.TimeUUID()

	repo := new(orderRepoMock)
	repo.On("Get", mock.Anything, id).Return(models.Order{ID: id, Status: models.StatusPrete}, nil)

	c := &Composer{Repo: repo}
	err := c.UpdateStatus(ctx, id, models.StatusVue)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusMailFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	id := gocql.TimeUUID()

	repo := new(orderRepoMock)
	repo.On("Get", mock.Anything, id).Return(models.Order{ID: id, Status: models.StatusVue}, nil)
	repo.On("UpdateStatus", mock.Anything, id, models.StatusPrete).Return(nil)

	notifier := new(notifierMock)
	notifier.On("StatusChanged", mock.Anything).Return(errors.New("smtp down"))

	c := &Composer{Repo: repo, Notifier: notifier}
	assert.NoError(t, c.UpdateStatus(ctx, id, models.StatusPrete))
}
