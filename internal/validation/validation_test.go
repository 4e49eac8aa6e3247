package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/models"
	"catalog/internal/validation"
)

func newEngine() *validation.Engine {
	return validation.NewEngine(validation.DefaultSellerDomains)
}

// validProduct returns a product passing every rule; tests tweak single
// fields from here.
func validProduct() models.Product {
	return models.Product{
		ID:              "c56a4180-65aa-42ec-a945-5fd21dec0538",
		Name:            "Galaxy S24 Ultra",
		SKU:             "SAMS-S24U-001",
		Description:     "Flagship smartphone",
		Category:        "smartphones",
		Brand:           "Samsung",
		Price:           129999,
		Currency:        "INR",
		DiscountPercent: 10,
		Stock:           25,
		IsActive:        true,
		Rating:          4.6,
		Tags:            []string{"android", "flagship"},
		ImageURLs:       []string{"https://samsungindia.in/images/s24u.jpg"},
		Dimensions:      models.Dimensions{Length: 16.2, Width: 7.9, Height: 0.9},
		Seller: models.Seller{
			ID:      "a3bb189e-8bf9-4888-9912-ace4e6543002",
			Name:    "Samsung India Official",
			Website: "https://samsungindia.in",
			Email:   "support@samsungindia.in",
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func fieldErrorsByField(t *testing.T, err error) map[string]validation.FieldError {
	t.Helper()
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	byField := make(map[string]validation.FieldError, len(verr.Fields))
	for _, fe := range verr.Fields {
		byField[fe.Field] = fe
	}
	return byField
}

func TestValidateNewAcceptsValidProduct(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	assert.NoError(t, engine.ValidateNew(&p))
}

func TestValidateNewSKUFormat(t *testing.T) {
	engine := newEngine()

	cases := []struct {
		sku   string
		valid bool
	}{
		{"abc-def-123", true},
		{"734-hjd-378", true},
		{"abc-def-12", false},   // trailing segment has 2 digits
		{"abc-def-1234", false}, // trailing segment has 4 digits
		{"abc-def-12a", false},  // trailing segment is not numeric
		{"abcdef123", false},    // no separator
	}

	for _, tc := range cases {
		t.Run(tc.sku, func(t *testing.T) {
			p := validProduct()
			p.SKU = tc.sku
			err := engine.ValidateNew(&p)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				byField := fieldErrorsByField(t, err)
				require.Contains(t, byField, "sku")
				assert.Equal(t, "sku", byField["sku"].Rule)
			}
		})
	}
}

func TestValidateNewRejectsZeroStockActiveProduct(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.Stock = 0
	p.IsActive = true

	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	require.Contains(t, byField, "is_active")
	assert.Equal(t, "stock_active", byField["is_active"].Rule)
}

func TestValidateNewAllowsZeroStockInactiveProduct(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.Stock = 0
	p.IsActive = false

	assert.NoError(t, engine.ValidateNew(&p))
}

func TestValidateNewRejectsDiscountedProductWithoutRating(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.DiscountPercent = 30
	p.Rating = 0

	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	require.Contains(t, byField, "rating")
	assert.Equal(t, "discount_rating", byField["rating"].Rule)
}

func TestValidateNewAllowsUnratedProductWithoutDiscount(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.DiscountPercent = 0
	p.Rating = 0

	assert.NoError(t, engine.ValidateNew(&p))
}

func TestValidateNewCollectsAllFailures(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.Name = "abc" // too short
	p.SKU = "abcdef123"
	p.Stock = 0
	p.IsActive = true

	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	assert.Contains(t, byField, "name")
	assert.Contains(t, byField, "sku")
	assert.Contains(t, byField, "is_active")
}

func TestValidateNewSellerEmailDomain(t *testing.T) {
	engine := newEngine()

	p := validProduct()
	p.Seller.Email = "someone@unknownshop.com"
	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	require.Contains(t, byField, "seller.email")
	assert.Equal(t, "seller_domain", byField["seller.email"].Rule)

	// The domain portion is matched case-insensitively.
	p = validProduct()
	p.Seller.Email = "Support@GMail.Com"
	assert.NoError(t, engine.ValidateNew(&p))
}

func TestValidateNewRejectsBadDimensions(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.Dimensions.Height = 0

	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	assert.Contains(t, byField, "dimensions_cm.height")
}

func TestValidateNewRejectsForeignCurrency(t *testing.T) {
	engine := newEngine()
	p := validProduct()
	p.Currency = "USD"

	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	assert.Contains(t, byField, "currency")
}

func TestValidateUpdateMergesPatch(t *testing.T) {
	engine := newEngine()
	existing := validProduct()

	newPrice := 99999
	newName := "Galaxy S24 Ultra 5G"
	merged, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{
		Price: &newPrice,
		Name:  &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, 99999, merged.Price)
	assert.Equal(t, "Galaxy S24 Ultra 5G", merged.Name)
	assert.Equal(t, existing.SKU, merged.SKU)
	assert.Equal(t, existing.Stock, merged.Stock)
}

func TestValidateUpdateChecksOnlyProvidedFields(t *testing.T) {
	engine := newEngine()
	existing := validProduct()

	shortName := "abc"
	_, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{Name: &shortName})
	byField := fieldErrorsByField(t, err)
	assert.Contains(t, byField, "name")
	assert.Len(t, byField, 1)
}

func TestValidateUpdateRechecksStockActiveRule(t *testing.T) {
	engine := newEngine()
	existing := validProduct() // active, stock 25

	// Draining stock on an active product must trip the cross-field rule even
	// though is_active was not part of the patch.
	zero := 0
	_, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{Stock: &zero})
	byField := fieldErrorsByField(t, err)
	require.Contains(t, byField, "is_active")
	assert.Equal(t, "stock_active", byField["is_active"].Rule)

	// Deactivating in the same patch makes the merge valid.
	inactive := false
	merged, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{Stock: &zero, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Stock)
	assert.False(t, merged.IsActive)
}

func TestValidateUpdateRechecksDiscountRatingRule(t *testing.T) {
	engine := newEngine()
	existing := validProduct()
	existing.DiscountPercent = 0
	existing.Rating = 0

	discount := 25
	_, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{DiscountPercent: &discount})
	byField := fieldErrorsByField(t, err)
	require.Contains(t, byField, "rating")
	assert.Equal(t, "discount_rating", byField["rating"].Rule)
}

func TestValidateUpdateSellerEmailDomain(t *testing.T) {
	engine := newEngine()
	existing := validProduct()

	badEmail := "someone@unknownshop.com"
	_, err := engine.ValidateUpdate(&existing, &models.ProductUpdate{
		Seller: &models.SellerUpdate{Email: &badEmail},
	})
	byField := fieldErrorsByField(t, err)
	assert.Contains(t, byField, "seller.email")
}

func TestCustomDomainAllowList(t *testing.T) {
	engine := validation.NewEngine([]string{"example.org"})

	p := validProduct()
	p.Seller.Email = "shop@example.org"
	assert.NoError(t, engine.ValidateNew(&p))

	p.Seller.Email = "support@gmail.com" // not in the custom list
	byField := fieldErrorsByField(t, engine.ValidateNew(&p))
	assert.Contains(t, byField, "seller.email")
}

func TestDerived(t *testing.T) {
	p := validProduct()
	p.Price = 1000
	p.DiscountPercent = 20
	p.Dimensions = models.Dimensions{Length: 2, Width: 3, Height: 4}

	d := validation.Derived(&p)
	assert.Equal(t, 800.0, d.PriceAfterDiscount)
	assert.Equal(t, 24.0, d.Volume)
}
