package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username  string `json:"username"   validate:"required,max=150"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateCustomerRequest is a partial update; nil fields are left untouched.
// BirthDate uses YYYY-MM-DD and an empty string clears it.
type UpdateCustomerRequest struct {
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=255"`
	BirthDate   *string `json:"birth_date"`
	FirstName   *string `json:"first_name"   validate:"omitempty,max=150"`
	LastName    *string `json:"last_name"    validate:"omitempty,max=150"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"max=255"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"         validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id"  validate:"required"`
	DiscountIDs []uint          `json:"discount_ids"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *uint            `json:"category_id"  validate:"omitempty,min=1"`
	DiscountIDs *[]uint          `json:"discount_ids"`
}

type DiscountRequest struct {
	Discount    decimal.Decimal `json:"discount"`
	Description string          `json:"description" validate:"max=255"`
}

type CreateCommentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Body string `json:"body" validate:"required"`
}

type CommentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CheckoutRequest struct {
	CartID string `json:"cart_id" validate:"required"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PageContentRequest struct {
	PageName string `json:"page_name" validate:"required,max=255"`
	Content  string `json:"content"`
}

type TeamMemberRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Role string `json:"role" validate:"max=255"`
	Bio  string `json:"bio"`
}
