package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/util"
)

const dateLayout = "2006-01-02"

type Page[T any] struct {
	Data []T           `json:"data"`
	Meta util.PageMeta `json:"meta"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}
}

type TokenResponse struct {
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CustomerResponse struct {
	ID          uint    `json:"id"`
	UserID      uint    `json:"user_id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	BirthDate   *string `json:"birth_date"`
}

func NewCustomerResponse(c *models.Customer) CustomerResponse {
	out := CustomerResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		PhoneNumber: c.PhoneNumber,
	}
	if c.User != nil {
		out.Username = c.User.Username
		out.Email = c.User.Email
		out.FirstName = c.User.FirstName
		out.LastName = c.User.LastName
	}
	if c.BirthDate != nil {
		s := c.BirthDate.Format(dateLayout)
		out.BirthDate = &s
	}
	return out
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

type CategoryResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	NumOfProducts int64  `json:"num_of_products"`
}

func NewCategoryResponse(c *models.Category, numOfProducts int64) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		NumOfProducts: numOfProducts,
	}
}

type DiscountResponse struct {
	ID          uint   `json:"id"`
	Discount    string `json:"discount"`
	Description string `json:"description"`
}

func NewDiscountResponse(d *models.Discount) DiscountResponse {
	return DiscountResponse{ID: d.ID, Discount: Money(d.Discount), Description: d.Description}
}

type ProductResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Description  string             `json:"description"`
	Price        string             `json:"price"`
	Stock        int                `json:"stock"`
	CategoryID   uint               `json:"category_id"`
	CategoryName string             `json:"category_name"`
	Discounts    []DiscountResponse `json:"discounts"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       Money(p.Price),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Discounts:   make([]DiscountResponse, 0, len(p.Discounts)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	for i := range p.Discounts {
		out.Discounts = append(out.Discounts, NewDiscountResponse(&p.Discounts[i]))
	}
	return out
}

func NewProductResponses(items []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, NewProductResponse(&items[i]))
	}
	return out
}

type ProductSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func newProductSummary(id uint, p *models.Product) ProductSummary {
	if p == nil {
		return ProductSummary{ID: id}
	}
	return ProductSummary{ID: p.ID, Name: p.Name, Price: Money(p.Price)}
}

type CartItemResponse struct {
	ID         uint           `json:"id"`
	Product    ProductSummary `json:"product"`
	Quantity   int            `json:"quantity"`
	TotalPrice string         `json:"total_price"`
}

func NewCartItemResponse(it *models.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:         it.ID,
		Product:    newProductSummary(it.ProductID, it.Product),
		Quantity:   it.Quantity,
		TotalPrice: Money(lineTotal(it)),
	}
}

func NewCartItemResponses(items []models.CartItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCartItemResponse(&items[i]))
	}
	return out
}

type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice string             `json:"total_price"`
}

func NewCartResponse(c *models.Cart) CartResponse {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(lineTotal(&c.Items[i]))
	}
	return CartResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		Items:      NewCartItemResponses(c.Items),
		TotalPrice: Money(total),
	}
}

func lineTotal(it *models.CartItem) decimal.Decimal {
	if it.Product == nil {
		return decimal.Zero
	}
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type OrderItemResponse struct {
	ID       uint           `json:"id"`
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
	Price    string         `json:"price"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	CustomerID uint                `json:"customer_id"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
}

// NewOrderResponse reports the snapshot price of each item, not the current product price.
func NewOrderResponse(o *models.Order) OrderResponse {
	out := OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		Items:      make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		summary := newProductSummary(it.ProductID, it.Product)
		out.Items = append(out.Items, OrderItemResponse{
			ID:       it.ID,
			Product:  summary,
			Quantity: it.Quantity,
			Price:    Money(it.Price),
		})
	}
	return out
}

func NewOrderResponses(items []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for i := range items {
		out = append(out, NewOrderResponse(&items[i]))
	}
	return out
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ProductID: c.ProductID,
		Name:      c.Name,
		Body:      c.Body,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

type PageContentResponse struct {
	ID       uint   `json:"id"`
	PageName string `json:"page_name"`
	Content  string `json:"content"`
}

func NewPageContentResponse(p *models.PageContent) PageContentResponse {
	return PageContentResponse{ID: p.ID, PageName: p.PageName, Content: p.Content}
}

type TeamMemberResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	Bio  string `json:"bio"`
}

func NewTeamMemberResponse(m *models.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{ID: m.ID, Name: m.Name, Role: m.Role, Bio: m.Bio}
}

// Money renders a decimal with two fraction digits.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
