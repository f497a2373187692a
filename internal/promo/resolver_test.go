package promo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/elosyboy/opochonmagique/internal/models"
)

type promoRepoMock struct{ mock.Mock }

func (m *promoRepoMock) FindActive(ctx context.Context, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*models.PromoCode)
	return p, args.Error(1)
}

func TestResolveNormalizesInput(t *testing.T) {
	repo := new(promoRepoMock)
	repo.On("FindActive", mock.Anything, "OPO20").
		Return(&models.PromoCode{Code: "OPO20", Type: models.PromoPercent, Value: 20, Active: true}, nil)

	r := NewResolver(repo)
	d, err := r.Resolve(context.Background(), "  opo20 ")

	assert.NoError(t, err)
	assert.Equal(t, "OPO20", d.Code)
	repo.AssertCalled(t, "FindActive", mock.Anything, "OPO20")
}

func TestResolveEmptyInputIsNoop(t *testing.T) {
	repo := new(promoRepoMock)
	r := NewResolver(repo)

	d, err := r.Resolve(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, d)
	repo.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything)
}

func TestResolveUnknownCodeRejected(t *testing.T) {
	repo := new(promoRepoMock)
	repo.On("FindActive", mock.Anything, "FAKE10").Return(nil, nil)

	r := NewResolver(repo)
	d, err := r.Resolve(context.Background(), "FAKE10")

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Nil(t, d)
}

func TestPercentDiscount(t *testing.T) {
	d := &Discount{Code: "OPO20", Type: models.PromoPercent, Value: 20}

	amount := d.Amount(50.00)
	assert.InDelta(t, 10.00, amount, 1e-9)
	assert.InDelta(t, 40.00, Total(50.00, amount), 1e-9)
}

func TestFixedDiscountNeverDrivesTotalNegative(t *testing.T) {
	d := &Discount{Code: "MOINS25", Type: models.PromoFixed, Value: 25}

	amount := d.Amount(10.00)
	assert.InDelta(t, 25.00, amount, 1e-9)
	assert.Equal(t, 0.00, Total(10.00, amount), "sous-total 10€, remise fixe 25€ → total 0€")
}

func TestNilDiscountLeavesTotalUnchanged(t *testing.T) {
	var d *Discount
	assert.Zero(t, d.Amount(42.00))
	assert.InDelta(t, 42.00, Total(42.00, d.Amount(42.00)), 1e-9)
}
