package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlsoftware/marketplace/internal/cart"
	"github.com/jlsoftware/marketplace/internal/catalog"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
	"github.com/jlsoftware/marketplace/internal/orders"
	"github.com/jlsoftware/marketplace/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *catalog.Store) {
	t.Helper()
	store := kv.NewMemory()
	products, categories := catalog.Generate(rand.New(rand.NewSource(1)))
	cat := catalog.NewStore(products, categories)

	ledger, err := orders.Open(context.Background(), orders.Options{Store: store})
	require.NoError(t, err)

	app := &App{
		Catalog:  cat,
		Carts:    cart.NewRegistry(store),
		Ledger:   ledger,
		Sessions: session.New(store),
	}
	r := NewRouter()
	app.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, cat
}

func doJSON(t *testing.T, method, url, sid string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if sid != "" {
		req.Header.Set(HeaderSession, sid)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, srv *httptest.Server, email string) (market.User, string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		SessionID string      `json:"session_id"`
		User      market.User `json:"user"`
	}](t, resp)
	return out.User, out.SessionID
}

func TestListProductsSorted(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?sort=price-low")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := decode[[]market.Product](t, resp)
	require.NotEmpty(t, products)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].Price, products[i].Price)
	}
}

func TestListProductsFiltered(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?category=phones")
	require.NoError(t, err)
	products := decode[[]market.Product](t, resp)
	require.Len(t, products, 5)
	for _, p := range products {
		assert.Equal(t, "phones", p.Category)
	}
}

func TestGetProductNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/products/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoriesCarryComputedCounts(t *testing.T) {
	srv, cat := newTestServer(t)
	resp, err := http.Get(srv.URL + "/categories")
	require.NoError(t, err)
	categories := decode[[]market.Category](t, resp)
	require.Len(t, categories, 6)
	for _, c := range categories {
		assert.Equal(t, cat.CountByCategory(c.ID), c.ProductCount)
	}
}

func TestCartRequiresSessionHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	srv, cat := newTestServer(t)
	sid := "guest-session"
	p := cat.Products()[0]

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart/items", sid, map[string]any{"product_id": p.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[cartView](t, resp)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 2*p.Price, view.TotalPrice)
	assert.Equal(t, market.FormatPrice(2*p.Price), view.TotalPriceDisplay)

	// same product again merges
	resp = doJSON(t, http.MethodPost, srv.URL+"/cart/items", sid, map[string]any{"product_id": p.ID, "quantity": 3})
	view = decode[cartView](t, resp)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	resp = doJSON(t, http.MethodPut, srv.URL+"/cart/items/"+p.ID, sid, map[string]int{"quantity": 1})
	view = decode[cartView](t, resp)
	assert.Equal(t, 1, view.TotalItems)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/cart/items/"+p.ID, sid, nil)
	view = decode[cartView](t, resp)
	assert.Empty(t, view.Items)
}

func TestAddUnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/cart/items", "s1", map[string]any{"product_id": "nope"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	srv, cat := newTestServer(t)
	user, sid := login(t, srv, "customer@example.com")

	a, b := cat.Products()[0], cat.Products()[1]
	doJSON(t, http.MethodPost, srv.URL+"/cart/items", sid, map[string]any{"product_id": a.ID, "quantity": 2}).Body.Close()
	doJSON(t, http.MethodPost, srv.URL+"/cart/items", sid, map[string]any{"product_id": b.ID, "quantity": 1}).Body.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout", sid, map[string]any{
		"delivery_location": map[string]string{
			"city":            "Nairobi",
			"area":            "Westlands",
			"street_landmark": "123 Main Street",
		},
		"payment_method": "mpesa",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[market.Order](t, resp)
	assert.Equal(t, 2*a.Price+b.Price, order.Total)
	assert.Equal(t, market.StatusPending, order.Status)
	assert.Equal(t, user.ID, order.CustomerID)
	assert.Equal(t, a.VendorID, order.VendorID)

	// cart is cleared after checkout
	resp = doJSON(t, http.MethodGet, srv.URL+"/cart", sid, nil)
	view := decode[cartView](t, resp)
	assert.Empty(t, view.Items)

	// the order shows up in the customer's history
	resp = doJSON(t, http.MethodGet, srv.URL+"/orders", sid, nil)
	history := decode[[]market.Order](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
}

func TestCheckoutValidation(t *testing.T) {
	srv, cat := newTestServer(t)
	sid := "s-checkout"
	loc := map[string]string{"city": "Nairobi", "area": "Westlands", "street_landmark": "123 Main Street"}

	// empty cart
	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout", sid, map[string]any{"delivery_location": loc, "payment_method": "mpesa"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	p := cat.Products()[0]
	doJSON(t, http.MethodPost, srv.URL+"/cart/items", sid, map[string]any{"product_id": p.ID}).Body.Close()

	// missing delivery field
	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout", sid, map[string]any{
		"delivery_location": map[string]string{"city": "Nairobi"},
		"payment_method":    "mpesa",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// unknown payment method
	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout", sid, map[string]any{"delivery_location": loc, "payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// a failed checkout must not clear the cart
	resp = doJSON(t, http.MethodGet, srv.URL+"/cart", sid, nil)
	view := decode[cartView](t, resp)
	assert.Len(t, view.Items, 1)
}

func TestOrdersRequireLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/orders", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusUpdateRoleGate(t *testing.T) {
	srv, cat := newTestServer(t)

	// customer places an order
	_, customerSid := login(t, srv, "customer@example.com")
	p := cat.Products()[0]
	doJSON(t, http.MethodPost, srv.URL+"/cart/items", customerSid, map[string]any{"product_id": p.ID}).Body.Close()
	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout", customerSid, map[string]any{
		"delivery_location": map[string]string{"city": "Nairobi", "area": "Westlands", "street_landmark": "123 Main Street"},
		"payment_method":    "card",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[market.Order](t, resp)
	statusURL := fmt.Sprintf("%s/orders/%s/status", srv.URL, order.ID)

	// customers may not update status
	resp = doJSON(t, http.MethodPatch, statusURL, customerSid, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// admin may
	_, adminSid := login(t, srv, "admin@jlsoftware.com")
	resp = doJSON(t, http.MethodPatch, statusURL, adminSid, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[market.Order](t, resp)
	assert.Equal(t, market.StatusConfirmed, updated.Status)

	// skipping ahead is rejected
	resp = doJSON(t, http.MethodPatch, statusURL, adminSid, map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// status endpoint reflects the ledger without Redis
	resp = doJSON(t, http.MethodGet, statusURL, customerSid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "confirmed", body["status"])
}

func TestAuthFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	// unknown email
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// register a vendor
	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": "jane@example.com", "password": "pw", "name": "Jane", "role": "vendor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[struct {
		SessionID string      `json:"session_id"`
		User      market.User `json:"user"`
	}](t, resp)
	assert.Equal(t, market.RoleVendor, out.User.Role)

	// me resolves the session
	resp = doJSON(t, http.MethodGet, srv.URL+"/auth/me", out.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[market.User](t, resp)
	assert.Equal(t, out.User.ID, me.ID)

	// duplicate registration
	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": "jane@example.com", "password": "pw", "name": "Jane", "role": "vendor",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// logout invalidates the session
	resp = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", out.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodGet, srv.URL+"/auth/me", out.SessionID, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestStatsEndpoints(t *testing.T) {
	srv, cat := newTestServer(t)

	// vendor stats gated to vendors
	_, customerSid := login(t, srv, "customer@example.com")
	resp := doJSON(t, http.MethodGet, srv.URL+"/vendor/stats", customerSid, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	vendor, vendorSid := login(t, srv, "vendor@techhub.com")
	resp = doJSON(t, http.MethodGet, srv.URL+"/vendor/stats", vendorSid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	vs := decode[market.VendorStats](t, resp)
	assert.Equal(t, cat.CountByVendor(vendor.ID), vs.TotalProducts)

	// admin stats gated to admins
	resp = doJSON(t, http.MethodGet, srv.URL+"/admin/stats", vendorSid, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	_, adminSid := login(t, srv, "admin@jlsoftware.com")
	resp = doJSON(t, http.MethodGet, srv.URL+"/admin/stats", adminSid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	as := decode[market.AdminStats](t, resp)
	assert.Equal(t, len(cat.Products()), as.TotalProducts)
}
