package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/models"
)

func Category(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Description: name + " supplies"}
	require.NoError(t, conn.Create(c).Error)
	return c
}

func Product(t *testing.T, conn *gorm.DB, categoryID uint, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Slug:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		CategoryID:  categoryID,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

// Customer creates a user with its customer profile.
func Customer(t *testing.T, conn *gorm.DB, username string, staff bool) (*models.User, *models.Customer) {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsStaff:      staff,
	}
	require.NoError(t, conn.Create(u).Error)
	c := &models.Customer{UserID: u.ID}
	require.NoError(t, conn.Create(c).Error)
	return u, c
}

func Cart(t *testing.T, conn *gorm.DB, items map[uint]int) *models.Cart {
	t.Helper()
	cart := &models.Cart{}
	require.NoError(t, conn.Create(cart).Error)
	for productID, qty := range items {
		require.NoError(t, conn.Create(&models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}).Error)
	}
	return cart
}
