package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusUnpaid   = "unpaid"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

const (
	CommentStatusWaiting     = "waiting"
	CommentStatusApproved    = "approved"
	CommentStatusNotApproved = "not_approved"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"size:150"                   json:"first_name"`
	LastName     string    `gorm:"size:150"                   json:"last_name"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	IsStaff      bool      `gorm:"not null;default:false"     json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer is the store profile of a user. Every user has exactly one.
type Customer struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null"      json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PhoneNumber string     `gorm:"size:255"                  json:"phone_number"`
	BirthDate   *time.Time `gorm:"type:date"                 json:"birth_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text"                    json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Discount struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Discount    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount"`
	Description string          `gorm:"size:255"                 json:"description"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"size:255;not null"           json:"name"`
	Slug        string          `gorm:"size:255;index"              json:"slug"`
	Description string          `gorm:"type:text"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0"          json:"stock"`
	CategoryID  uint            `gorm:"index;not null"              json:"category_id"`
	Category    *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Discounts   []Discount      `gorm:"many2many:product_discounts;constraint:OnDelete:CASCADE" json:"discounts,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	ProductID uint      `gorm:"index;not null"                   json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"      json:"-"`
	Name      string    `gorm:"size:255;not null"                json:"name"`
	Body      string    `gorm:"type:text;not null"               json:"body"`
	Status    string    `gorm:"size:16;not null;default:waiting" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Cart ids are random v4 uuids assigned on creation and never reused.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"       json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product"     json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"               json:"product,omitempty"`
	Quantity  int       `gorm:"not null"                                  json:"quantity"`
}

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"        json:"id"`
	CustomerID uint        `gorm:"index;not null"                  json:"customer_id"`
	Customer   *Customer   `gorm:"constraint:OnDelete:RESTRICT"    json:"-"`
	Status     string      `gorm:"size:16;not null;default:unpaid" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderItem `gorm:"constraint:OnDelete:CASCADE"     json:"items"`
}

// OrderItem.Price is the product price captured at checkout.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	OrderID   uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"`
	Product   *Product        `gorm:"constraint:OnDelete:RESTRICT"         json:"product,omitempty"`
	Quantity  int             `gorm:"not null"                             json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"          json:"price"`
}

type PageContent struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"     json:"id"`
	PageName string `gorm:"size:255;uniqueIndex;not null" json:"page_name"`
	Content  string `gorm:"type:text"                    json:"content"`
}

type TeamMember struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null"        json:"name"`
	Role string `gorm:"size:255"                 json:"role"`
	Bio  string `gorm:"type:text"                json:"bio"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Customer{},
		&Category{}, &Discount{}, &Product{}, &Comment{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
		&PageContent{}, &TeamMember{},
	}
}

func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusUnpaid, OrderStatusPaid, OrderStatusCanceled:
		return true
	}
	return false
}

func IsValidCommentStatus(s string) bool {
	switch s {
	case CommentStatusWaiting, CommentStatusApproved, CommentStatusNotApproved:
		return true
	}
	return false
}
