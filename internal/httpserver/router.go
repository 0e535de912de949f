package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/metrics"
	authmw "github.com/hatef97/office-supplies-website/internal/middleware/auth"
	"github.com/hatef97/office-supplies-website/internal/middleware/idempotency"
)

type Deps struct {
	Accounts *AccountHTTP
	Catalog  *CatalogHTTP
	Comments *CommentHTTP
	Carts    *CartHTTP
	Orders   *OrderHTTP
	Content  *ContentHTTP

	JWTSecret      []byte
	Metrics        *metrics.Metrics
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	ReadyChecks    map[string]Check
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", live)
	e.GET("/health/ready", ready(d.ReadyChecks))
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))

	authMW := authmw.NewSimpleAuth(d.JWTSecret)
	requireAuth := authMW.RequireAuth
	requireAdmin := authMW.RequireAdmin

	auth := e.Group("/auth")
	auth.POST("/users", d.Accounts.Register)
	auth.POST("/jwt/create", d.Accounts.Login)
	auth.GET("/users/me", d.Accounts.Me, requireAuth)

	store := e.Group("/store")

	store.GET("/categories", d.Catalog.ListCategories)
	store.POST("/categories", d.Catalog.CreateCategory, requireAdmin)
	store.GET("/categories/:id", d.Catalog.GetCategory)
	store.PUT("/categories/:id", d.Catalog.UpdateCategory, requireAdmin)
	store.PATCH("/categories/:id", d.Catalog.UpdateCategory, requireAdmin)
	store.DELETE("/categories/:id", d.Catalog.DeleteCategory, requireAdmin)
	store.GET("/categories/:category_id/products", d.Catalog.ListCategoryProducts)

	store.GET("/products", d.Catalog.ListProducts)
	store.POST("/products", d.Catalog.CreateProduct, requireAdmin)
	store.GET("/products/:id", d.Catalog.GetProduct)
	store.PATCH("/products/:id", d.Catalog.PatchProduct, requireAdmin)
	store.DELETE("/products/:id", d.Catalog.DeleteProduct, requireAdmin)

	store.GET("/products/:product_id/comments", d.Comments.ListComments)
	store.POST("/products/:product_id/comments", d.Comments.CreateComment)
	store.GET("/products/:product_id/comments/:id", d.Comments.GetComment)
	store.PATCH("/products/:product_id/comments/:id", d.Comments.UpdateCommentStatus, requireAdmin)
	store.DELETE("/products/:product_id/comments/:id", d.Comments.DeleteComment, requireAdmin)

	store.GET("/discounts", d.Catalog.ListDiscounts)
	store.POST("/discounts", d.Catalog.CreateDiscount, requireAdmin)
	store.GET("/discounts/:id", d.Catalog.GetDiscount)
	store.PUT("/discounts/:id", d.Catalog.UpdateDiscount, requireAdmin)
	store.PATCH("/discounts/:id", d.Catalog.UpdateDiscount, requireAdmin)
	store.DELETE("/discounts/:id", d.Catalog.DeleteDiscount, requireAdmin)

	store.POST("/carts", d.Carts.CreateCart)
	store.GET("/carts/:cart_id", d.Carts.GetCart)
	store.DELETE("/carts/:cart_id", d.Carts.DeleteCart)
	store.GET("/carts/:cart_id/items", d.Carts.ListItems)
	store.POST("/carts/:cart_id/items", d.Carts.AddItem)
	store.GET("/carts/:cart_id/items/:id", d.Carts.GetItem)
	store.PATCH("/carts/:cart_id/items/:id", d.Carts.UpdateItem)
	store.DELETE("/carts/:cart_id/items/:id", d.Carts.DeleteItem)

	checkoutIdem := idempotency.Middleware(d.Idempotency, d.IdempotencyTTL, authmw.Scope)
	store.GET("/orders", d.Orders.ListOrders, requireAuth)
	store.POST("/orders", d.Orders.CreateOrder, requireAuth, checkoutIdem)
	store.GET("/orders/:id", d.Orders.GetOrder, requireAuth)
	store.PATCH("/orders/:id", d.Orders.UpdateOrderStatus, requireAdmin)
	store.DELETE("/orders/:id", d.Orders.DeleteOrder, requireAdmin)

	store.GET("/customers", d.Accounts.ListCustomers, requireAdmin)
	store.GET("/customers/me", d.Accounts.GetCustomerMe, requireAuth)
	store.PUT("/customers/me", d.Accounts.UpdateCustomerMe, requireAuth)
	store.PATCH("/customers/me", d.Accounts.UpdateCustomerMe, requireAuth)

	store.GET("/pages", d.Content.ListPages)
	store.POST("/pages", d.Content.CreatePage, requireAdmin)
	store.GET("/pages/:id", d.Content.GetPage)
	store.PUT("/pages/:id", d.Content.UpdatePage, requireAdmin)
	store.DELETE("/pages/:id", d.Content.DeletePage, requireAdmin)

	store.GET("/team", d.Content.ListTeam)
	store.POST("/team", d.Content.CreateTeamMember, requireAdmin)
	store.GET("/team/:id", d.Content.GetTeamMember)
	store.PUT("/team/:id", d.Content.UpdateTeamMember, requireAdmin)
	store.DELETE("/team/:id", d.Content.DeleteTeamMember, requireAdmin)
}
