package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/testutil"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

func TestCartService_AddItemMergesQuantities(t *testing.T) {
	conn := testutil.NewDB(t)
	pub := &fakePublisher{}
	svc := &service.CartService{Repo: repo.New(conn), Publisher: pub}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Desk")
	stapler := testutil.Product(t, conn, cat.ID, "Stapler", "12.00", 3)

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cart.ID)
	assert.Empty(t, cart.Items)

	first, err := svc.AddItem(ctx, cart.ID, transport.AddCartItemRequest{ProductID: stapler.ID, Quantity: 2})
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, cart.ID, transport.AddCartItemRequest{ProductID: stapler.ID, Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 6, second.Quantity)

	got, err := svc.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 6, got.Items[0].Quantity)

	// quantity above stock is accepted
	assert.Greater(t, got.Items[0].Quantity, stapler.Stock)

	assert.Equal(t, []string{"cart_created", "cart_item_added", "cart_item_added"}, pub.types())
}

func TestCartService_AddItemValidation(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := &service.CartService{Repo: repo.New(conn)}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Desk")
	p := testutil.Product(t, conn, cat.ID, "Tape", "2.00", 5)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, transport.AddCartItemRequest{ProductID: p.ID, Quantity: 0})
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Details(), "quantity")

	_, err = svc.AddItem(ctx, cart.ID, transport.AddCartItemRequest{ProductID: 4242, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, service.MsgNoSuchProduct, apperr.As(err).Details()["product_id"])

	_, err = svc.AddItem(ctx, uuid.New(), transport.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCartService_UpdateItemToZeroKeepsLine(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := &service.CartService{Repo: repo.New(conn)}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Desk")
	p := testutil.Product(t, conn, cat.ID, "Clips", "0.99", 100)
	cart := testutil.Cart(t, conn, map[uint]int{p.ID: 3})

	items, err := svc.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	updated, err := svc.UpdateItem(ctx, cart.ID, items[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	items, err = svc.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.UpdateItem(ctx, cart.ID, items[0].ID, -1)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.UpdateItem(ctx, cart.ID, items[0].ID+100, 2)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCartService_DeleteItemAndCart(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := &service.CartService{Repo: repo.New(conn)}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Desk")
	p := testutil.Product(t, conn, cat.ID, "Ruler", "1.20", 10)
	cart := testutil.Cart(t, conn, map[uint]int{p.ID: 1})

	items, err := svc.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteItem(ctx, cart.ID, items[0].ID))
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(svc.DeleteItem(ctx, cart.ID, items[0].ID)))

	require.NoError(t, svc.DeleteCart(ctx, cart.ID))
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(svc.DeleteCart(ctx, cart.ID)))

	var n int64
	require.NoError(t, conn.Model(&models.Cart{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCartService_ItemOfOtherCartIsNotFound(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := &service.CartService{Repo: repo.New(conn)}
	ctx := context.Background()

	cat := testutil.Category(t, conn, "Desk")
	p := testutil.Product(t, conn, cat.ID, "Glue", "3.10", 10)
	mine := testutil.Cart(t, conn, map[uint]int{p.ID: 1})
	other := testutil.Cart(t, conn, nil)

	items, err := svc.ListItems(ctx, mine.ID)
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, other.ID, items[0].ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
