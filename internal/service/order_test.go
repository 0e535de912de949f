package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/testutil"
)

func TestOrderService_Visibility(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	checkout := &service.CheckoutService{Repo: r}
	orders := &service.OrderService{Repo: r}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Office")
	p := testutil.Product(t, conn, cat.ID, "Marker", "2.00", 10)
	alice, _ := testutil.Customer(t, conn, "alice", false)
	bob, _ := testutil.Customer(t, conn, "bob", false)
	admin, _ := testutil.Customer(t, conn, "admin", true)

	aliceOrder, err := checkout.Checkout(ctx, alice.ID, testutil.Cart(t, conn, map[uint]int{p.ID: 1}).ID)
	require.NoError(t, err)
	_, err = checkout.Checkout(ctx, bob.ID, testutil.Cart(t, conn, map[uint]int{p.ID: 2}).ID)
	require.NoError(t, err)

	list, meta, err := orders.List(ctx, service.Actor{UserID: alice.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, aliceOrder.ID, list[0].ID)
	assert.EqualValues(t, 1, meta.Total)

	list, meta, err = orders.List(ctx, service.Actor{UserID: admin.ID, IsStaff: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, meta.Total)

	_, err = orders.Get(ctx, service.Actor{UserID: bob.ID}, aliceOrder.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	got, err := orders.Get(ctx, service.Actor{UserID: alice.ID}, aliceOrder.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	list, _, err = orders.List(ctx, service.Actor{UserID: 12345}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderService_StatusAndDeleteAreStaffOnly(t *testing.T) {
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	pub := &fakePublisher{}
	checkout := &service.CheckoutService{Repo: r}
	orders := &service.OrderService{Repo: r, Publisher: pub}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Office")
	p := testutil.Product(t, conn, cat.ID, "Binder", "6.00", 10)
	alice, _ := testutil.Customer(t, conn, "alice", false)
	staff := service.Actor{UserID: 99, IsStaff: true}

	order, err := checkout.Checkout(ctx, alice.ID, testutil.Cart(t, conn, map[uint]int{p.ID: 1}).ID)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, service.Actor{UserID: alice.ID}, order.ID, models.OrderStatusPaid)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	_, err = orders.UpdateStatus(ctx, staff, order.ID, "shipped")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	updated, err := orders.UpdateStatus(ctx, staff, order.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)

	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(orders.Delete(ctx, service.Actor{UserID: alice.ID}, order.ID)))
	require.NoError(t, orders.Delete(ctx, staff, order.ID))
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(orders.Delete(ctx, staff, order.ID)))

	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.Equal(t, []string{"order_status_changed", "order_deleted"}, pub.types())
}
