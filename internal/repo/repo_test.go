package repo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/testutil"
)

func TestUpsertCartItem_MergesSameProduct(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Paper")
	p := testutil.Product(t, conn, cat.ID, "A4 ream", "5.50", 10)
	cart := testutil.Cart(t, conn, nil)

	first := &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 2}
	require.NoError(t, r.UpsertCartItem(ctx, first))
	assert.Equal(t, 2, first.Quantity)

	second := &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 3}
	require.NoError(t, r.UpsertCartItem(ctx, second))
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Product)
	assert.Equal(t, "A4 ream", second.Product.Name)

	items, err := r.CartItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpsertCartItem_ConcurrentAddsNeverDuplicate(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Paper")
	p := testutil.Product(t, conn, cat.ID, "Envelope", "0.20", 100)
	cart := testutil.Cart(t, conn, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.UpsertCartItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}))
		}()
	}
	wg.Wait()

	items, err := r.CartItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Quantity)
}

func TestCartItemUniqueConstraint(t *testing.T) {
	conn := testutil.NewDB(t)

	cat := testutil.Category(t, conn, "Paper")
	p := testutil.Product(t, conn, cat.ID, "Folder", "1.00", 1)
	cart := testutil.Cart(t, conn, map[uint]int{p.ID: 1})

	err := conn.Create(&models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}).Error
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestDeleteCart_ReportsRowsAffected(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Paper")
	p := testutil.Product(t, conn, cat.ID, "Notebook", "3.00", 1)
	cart := testutil.Cart(t, conn, map[uint]int{p.ID: 2})

	n, err := r.DeleteCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	var items int64
	require.NoError(t, conn.Model(&models.CartItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestLockCart_NotFound(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)

	_, err := r.LockCart(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrders_Scope(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	ctx := context.Background()

	_, alice := testutil.Customer(t, conn, "alice", false)
	_, bob := testutil.Customer(t, conn, "bob", false)
	require.NoError(t, r.CreateOrder(ctx, &models.Order{CustomerID: alice.ID, Status: models.OrderStatusUnpaid}))
	require.NoError(t, r.CreateOrder(ctx, &models.Order{CustomerID: bob.ID, Status: models.OrderStatusUnpaid}))
	require.NoError(t, r.CreateOrder(ctx, &models.Order{CustomerID: bob.ID, Status: models.OrderStatusPaid}))

	all, total, err := r.ListOrders(ctx, repo.OrderScope{}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	own, total, err := r.ListOrders(ctx, repo.OrderScope{CustomerID: &alice.ID}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].CustomerID)

	for _, o := range all {
		_, err := r.GetOrder(ctx, repo.OrderScope{CustomerID: &alice.ID}, o.ID)
		if o.CustomerID == alice.ID {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		}
	}
}

func TestProductCountsByCategory(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)

	pens := testutil.Category(t, conn, "Pens")
	paper := testutil.Category(t, conn, "Paper")
	empty := testutil.Category(t, conn, "Empty")
	testutil.Product(t, conn, pens.ID, "Blue pen", "1.00", 1)
	testutil.Product(t, conn, pens.ID, "Red pen", "1.00", 1)
	testutil.Product(t, conn, paper.ID, "A4", "4.00", 1)

	counts, err := r.ProductCountsByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[pens.ID])
	assert.Equal(t, int64(1), counts[paper.ID])
	assert.Zero(t, counts[empty.ID])
}

func TestListProducts_FilterAndOrder(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)

	pens := testutil.Category(t, conn, "Pens")
	paper := testutil.Category(t, conn, "Paper")
	testutil.Product(t, conn, pens.ID, "Gel Pen", "2.50", 1)
	testutil.Product(t, conn, pens.ID, "Ball Pen", "0.90", 1)
	testutil.Product(t, conn, paper.ID, "Pen paper", "3.00", 1)

	items, total, err := r.ListProducts(context.Background(), repo.ProductFilter{
		CategoryID: &pens.ID,
		OrderBy:    clause.OrderByColumn{Column: clause.Column{Name: "price"}, Desc: true},
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Gel Pen", items[0].Name)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Pens", items[0].Category.Name)

	items, total, err = r.ListProducts(context.Background(), repo.ProductFilter{NameLike: "PEN", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)
}

func TestDeleteProduct_RemovesDependents(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Pens")
	p := testutil.Product(t, conn, cat.ID, "Marker", "1.20", 4)
	testutil.Cart(t, conn, map[uint]int{p.ID: 1})
	require.NoError(t, r.CreateComment(ctx, &models.Comment{ProductID: p.ID, Name: "n", Body: "b", Status: models.CommentStatusWaiting}))
	d := &models.Discount{Description: "spring"}
	require.NoError(t, r.CreateDiscount(ctx, d))
	require.NoError(t, r.ReplaceProductDiscounts(ctx, p, []models.Discount{*d}))

	require.NoError(t, db.WithTx(ctx, conn, func(tx *gorm.DB) error {
		return r.WithTx(tx).DeleteProduct(ctx, p.ID)
	}))

	exists, err := r.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	for _, m := range []any{&models.CartItem{}, &models.Comment{}} {
		var n int64
		require.NoError(t, conn.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	var links int64
	require.NoError(t, conn.Table("product_discounts").Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)
}
