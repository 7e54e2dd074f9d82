package cartService

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: dec(price), Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedDiscounted(t *testing.T, db *gorm.DB, name, price, discount string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Price:         dec(price),
		DiscountPrice: decimal.NullDecimal{Decimal: dec(discount), Valid: true},
		Stock:         stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// totals must hold after every mutation: subtotal == Σ effective price × qty.
func assertCartInvariant(t *testing.T, view CartView) {
	t.Helper()
	sum := decimal.Zero
	items := 0
	for _, item := range view.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items += item.Quantity
	}
	assert.True(t, view.Subtotal.Equal(sum), "subtotal %s, items sum %s", view.Subtotal, sum)
	assert.Equal(t, items, view.TotalItems)
	assert.True(t, view.Total.Equal(view.Subtotal.Add(view.ShippingFee)))
}

func TestAddItem(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Clavier", "45.500", 10)

	view, err := AddItem(db, "user-1", product.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Subtotal.Equal(dec("91")))
	assertCartInvariant(t, view)

	// Same product again accumulates the line instead of duplicating it.
	view, err = AddItem(db, "user-1", product.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assertCartInvariant(t, view)
}

func TestAddItemUsesDiscountPrice(t *testing.T) {
	db := openTestDB(t)
	product := seedDiscounted(t, db, "Casque", "120.000", "99.900", 5)

	view, err := AddItem(db, "user-1", product.ID, 1)
	require.NoError(t, err)
	assert.True(t, view.Items[0].UnitPrice.Equal(dec("99.900")))
	assertCartInvariant(t, view)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := openTestDB(t)

	_, err := AddItem(db, "user-1", 999, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddItemInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Souris", "25.000", 3)

	_, err := AddItem(db, "user-1", product.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	view, err := GetCart(db, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestAddItemClampsAccumulatedQuantity(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Ecran", "350.000", 4)

	_, err := AddItem(db, "user-1", product.ID, 3)
	require.NoError(t, err)

	// 3 + 3 exceeds stock 4; the line is clamped, not rejected.
	view, err := AddItem(db, "user-1", product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assertCartInvariant(t, view)
}

func TestUpdateQuantity(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Cable", "9.900", 10)

	view, err := AddItem(db, "user-1", product.ID, 1)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = UpdateQuantity(db, "user-1", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assertCartInvariant(t, view)
}

func TestUpdateQuantityRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Cable", "9.900", 10)

	view, err := AddItem(db, "user-1", product.ID, 2)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	_, err = UpdateQuantity(db, "user-1", itemID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	_, err = UpdateQuantity(db, "user-1", itemID, 11)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	// No-op guarantee: the cart is unchanged after both failures.
	view, err = GetCart(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestUpdateQuantityMissingProduct(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Enceinte", "79.000", 5)

	view, err := AddItem(db, "user-1", product.ID, 1)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	// Catalog removed the product after it was added to the cart.
	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)

	_, err = UpdateQuantity(db, "user-1", itemID, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	db := openTestDB(t)

	_, err := UpdateQuantity(db, "user-1", 42, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Tapis", "19.000", 5)

	view, err := AddItem(db, "user-1", product.ID, 1)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	require.NoError(t, RemoveItem(db, "user-1", itemID))
	// Removing again is a no-op, not an error.
	require.NoError(t, RemoveItem(db, "user-1", itemID))

	view, err = GetCart(db, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestClear(t *testing.T) {
	db := openTestDB(t)
	a := seedProduct(t, db, "A", "10", 5)
	b := seedProduct(t, db, "B", "20", 5)

	_, err := AddItem(db, "user-1", a.ID, 1)
	require.NoError(t, err)
	_, err = AddItem(db, "user-1", b.ID, 2)
	require.NoError(t, err)

	require.NoError(t, Clear(db, "user-1"))

	view, err := GetCart(db, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func TestGetCartDoesNotTouchStock(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Chargeur", "35.000", 8)

	_, err := AddItem(db, "user-1", product.ID, 2)
	require.NoError(t, err)
	_, err = GetCart(db, "user-1")
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestCartsAreUserExclusive(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, "Clé USB", "15.000", 10)

	_, err := AddItem(db, "user-1", product.ID, 1)
	require.NoError(t, err)
	_, err = AddItem(db, "user-2", product.ID, 3)
	require.NoError(t, err)

	one, err := GetCart(db, "user-1")
	require.NoError(t, err)
	two, err := GetCart(db, "user-2")
	require.NoError(t, err)

	assert.Equal(t, 1, one.TotalItems)
	assert.Equal(t, 3, two.TotalItems)
	assert.NotEqual(t, one.CartID, two.CartID)
}
