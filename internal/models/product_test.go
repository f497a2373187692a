package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(v float64) *float64 { return &v }

func validFleur() Product {
	return Product{
		Name:     "Amnesia Haze",
		Category: CategoryFleur,
		PriceByGrams: []GramPrice{
			{Price: 12.50, Grams: "3g"},
			{Price: 22.00, Grams: "5g"},
		},
	}
}

func validHuile() Product {
	return Product{
		Name:     "Huile 10%",
		Category: CategoryHuile,
		Price:    floatp(29.90),
	}
}

func TestValidateWeighedRequiresGramGrid(t *testing.T) {
	p := validFleur()
	p.PriceByGrams = nil
	require.Error(t, p.Validate())
}

func TestValidateWeighedForbidsFlatPrice(t *testing.T) {
	p := validFleur()
	p.Price = floatp(10)
	require.Error(t, p.Validate())
}

func TestValidateFlatPriceRequired(t *testing.T) {
	p := validHuile()
	p.Price = nil
	assert.Error(t, p.Validate())

	p.Price = floatp(0)
	assert.Error(t, p.Validate())
}

func TestValidateFlatPriceForbidsGramGrid(t *testing.T) {
	p := validHuile()
	p.PriceByGrams = []GramPrice{{Price: 5, Grams: "1g"}}
	require.Error(t, p.Validate())
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	p := validHuile()
	p.Category = Category("cosmetique")
	require.Error(t, p.Validate())
}

func TestValidateAccessoryNeedsType(t *testing.T) {
	p := Product{Name: "Grinder", Category: CategoryAccessoire, Price: floatp(9.90)}
	require.Error(t, p.Validate())

	p.AccessoryType = "grinder"
	require.NoError(t, p.Validate())
}

func TestValidatePromoNeedsBothPrices(t *testing.T) {
	p := validHuile()
	p.Promo = true
	assert.Error(t, p.Validate())

	p.PromoBasePrice = floatp(29.90)
	p.PromoPrice = floatp(34.90)
	assert.Error(t, p.Validate(), "le prix promo doit être inférieur au prix de base")

	p.PromoPrice = floatp(19.90)
	assert.NoError(t, p.Validate())
}

func TestValidateAcceptsWellFormedProducts(t *testing.T) {
	fleur := validFleur()
	require.NoError(t, fleur.Validate())

	huile := validHuile()
	require.NoError(t, huile.Validate())
}

func TestValidateRejectsBrokenGramGrid(t *testing.T) {
	p := validFleur()
	p.PriceByGrams = append(p.PriceByGrams, GramPrice{Price: 0, Grams: "10g"})
	require.Error(t, p.Validate())
}
