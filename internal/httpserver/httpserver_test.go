package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/httpserver"
	"github.com/hatef97/office-supplies-website/internal/metrics"
	authmw "github.com/hatef97/office-supplies-website/internal/middleware/auth"
	"github.com/hatef97/office-supplies-website/internal/middleware/idempotency"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/testutil"
	"github.com/hatef97/office-supplies-website/internal/tokens"
)

var secret = []byte("test-secret")

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", idempotency.ErrMiss
}

func (m *memStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memStore) Key(scope, id string) string { return scope + ":" + id }

type server struct {
	e    *echo.Echo
	conn *gorm.DB
}

func newServer(t *testing.T) *server {
	t.Helper()
	conn := testutil.NewDB(t)
	r := repo.New(conn)
	pub := mykafka.Noop{}
	m := metrics.New(prometheus.NewRegistry())

	e := echo.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Validator = httpserver.NewValidator()
	e.Use(authmw.NewSimpleAuth(secret).Authenticate)

	httpserver.Register(e, &httpserver.Deps{
		Accounts: &httpserver.AccountHTTP{Svc: &service.AccountService{Repo: r, Secret: secret, AccessTTL: time.Hour, Publisher: pub}},
		Catalog:  &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Publisher: pub}},
		Comments: &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: r, Publisher: pub}},
		Carts:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Publisher: pub}},
		Orders: &httpserver.OrderHTTP{
			Orders:   &service.OrderService{Repo: r, Publisher: pub},
			Checkout: &service.CheckoutService{Repo: r, Publisher: pub, Metrics: m},
		},
		Content:     &httpserver.ContentHTTP{Svc: &service.ContentService{Repo: r}},
		JWTSecret:   secret,
		Metrics:     m,
		Idempotency: &memStore{data: map[string]string{}},
		ReadyChecks: map[string]httpserver.Check{
			"database": func(ctx context.Context) error { return db.Ping(ctx, conn) },
		},
	})
	return &server{e: e, conn: conn}
}

func (s *server) do(t *testing.T, method, path, body, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, u.ID, tokens.RoleFor(u.IsStaff), time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestCheckout_CreatesOrderAndRemovesCart(t *testing.T) {
	s := newServer(t)
	cat := testutil.Category(t, s.conn, "Writing")
	pen := testutil.Product(t, s.conn, cat.ID, "pen", "2.50", 10)
	user, customer := testutil.Customer(t, s.conn, "alice", false)
	cart := testutil.Cart(t, s.conn, map[uint]int{pen.ID: 4})

	rec := s.do(t, http.MethodPost, "/store/orders", fmt.Sprintf(`{"cart_id":%q}`, cart.ID), tokenFor(t, user))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order struct {
		ID         uint   `json:"id"`
		CustomerID uint   `json:"customer_id"`
		Status     string `json:"status"`
		Items      []struct {
			Quantity int    `json:"quantity"`
			Price    string `json:"price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, models.OrderStatusUnpaid, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.Equal(t, "2.50", order.Items[0].Price)

	rec = s.do(t, http.MethodGet, "/store/carts/"+cart.ID.String(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestCheckout_Rejections(t *testing.T) {
	s := newServer(t)
	user, _ := testutil.Customer(t, s.conn, "bob", false)
	empty := testutil.Cart(t, s.conn, nil)
	tok := tokenFor(t, user)

	cases := []struct {
		name   string
		body   string
		token  string
		status int
		code   string
		detail string
	}{
		{"empty cart", fmt.Sprintf(`{"cart_id":%q}`, empty.ID), tok, http.StatusBadRequest, "VALIDATION_ERROR", service.MsgCartEmpty},
		{"unknown cart", `{"cart_id":"6f1c2d4e-0000-4000-8000-000000000000"}`, tok, http.StatusBadRequest, "VALIDATION_ERROR", service.MsgCartNotFound},
		{"malformed id", `{"cart_id":"nope"}`, tok, http.StatusBadRequest, "VALIDATION_ERROR", "Must be a valid UUID."},
		{"missing id", `{}`, tok, http.StatusBadRequest, "VALIDATION_ERROR", "This field is required."},
		{"anonymous", fmt.Sprintf(`{"cart_id":%q}`, empty.ID), "", http.StatusUnauthorized, "UNAUTHORIZED", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/store/orders", tc.body, tc.token)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			env := decodeError(t, rec)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, env.Error.Details["cart_id"])
			}
		})
	}
}

func TestCheckout_IdempotencyKeyReplays(t *testing.T) {
	s := newServer(t)
	cat := testutil.Category(t, s.conn, "Paper")
	paper := testutil.Product(t, s.conn, cat.ID, "paper", "5.00", 3)
	user, _ := testutil.Customer(t, s.conn, "carol", false)
	cart := testutil.Cart(t, s.conn, map[uint]int{paper.ID: 1})
	body := fmt.Sprintf(`{"cart_id":%q}`, cart.ID)

	first := s.do(t, http.MethodPost, "/store/orders", body, tokenFor(t, user), idempotency.HeaderKey, "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := s.do(t, http.MethodPost, "/store/orders", body, tokenFor(t, user), idempotency.HeaderKey, "k-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(idempotency.HeaderReplayed))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var orders int64
	require.NoError(t, s.conn.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
}

func TestOrders_StaffOnlyWrites(t *testing.T) {
	s := newServer(t)
	user, customer := testutil.Customer(t, s.conn, "dave", false)
	admin, _ := testutil.Customer(t, s.conn, "root", true)
	order := &models.Order{CustomerID: customer.ID, Status: models.OrderStatusUnpaid}
	require.NoError(t, s.conn.Create(order).Error)
	path := fmt.Sprintf("/store/orders/%d", order.ID)

	rec := s.do(t, http.MethodPatch, path, `{"status":"paid"}`, tokenFor(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Error.Code)

	rec = s.do(t, http.MethodPatch, path, `{"status":"paid"}`, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)

	rec = s.do(t, http.MethodGet, path, "", tokenFor(t, user))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, path, "", tokenFor(t, admin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCatalog_WritesRequireStaff(t *testing.T) {
	s := newServer(t)
	user, _ := testutil.Customer(t, s.conn, "erin", false)
	admin, _ := testutil.Customer(t, s.conn, "boss", true)

	rec := s.do(t, http.MethodPost, "/store/categories", `{"name":"Desk"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/store/categories", `{"name":"Desk"}`, tokenFor(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/store/categories", `{"name":"Desk"}`, tokenFor(t, admin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/store/categories", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desk")
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/auth/users", `{"username":"frank","email":"Frank@Example.com","password":"long-enough"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/jwt/create", `{"username":"frank","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/jwt/create", `{"username":"frank","password":"long-enough"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Access)

	rec = s.do(t, http.MethodGet, "/auth/users/me", "", tok.Access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"frank"`)

	rec = s.do(t, http.MethodGet, "/store/customers/me", "", tok.Access)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrors_UnknownRouteAndBadBody(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)

	rec = s.do(t, http.MethodPost, "/store/carts/"+"not-a-uuid"+"/items", `{"product_id":1,"quantity":1}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/users", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Error.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", "").Code)

	rec := s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	sqlDB, err := s.conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
