// Package httpx is the storefront HTTP surface: catalog browsing, cart,
// checkout, order history, auth and the role dashboards.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/jlsoftware/marketplace/internal/cart"
	"github.com/jlsoftware/marketplace/internal/catalog"
	"github.com/jlsoftware/marketplace/internal/orders"
	"github.com/jlsoftware/marketplace/internal/session"
)

// Clients identify their session with this header. The id is issued by
// login/register, or minted client-side for guest carts.
const HeaderSession = "X-Session-Id"

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// App wires the engines into the router. Redis is optional and only
// backs the order-status cache reads; everything still works without it.
type App struct {
	Catalog  *catalog.Store
	Carts    *cart.Registry
	Ledger   *orders.Ledger
	Sessions *session.Provider
	Redis    *redis.Client
}

func (a *App) Register(r *chi.Mux) {
	r.Get("/products", a.listProducts)
	r.Get("/products/{id}", a.getProduct)
	r.Get("/categories", a.listCategories)

	r.Get("/cart", a.getCart)
	r.Post("/cart/items", a.addCartItem)
	r.Put("/cart/items/{productID}", a.updateCartItem)
	r.Delete("/cart/items/{productID}", a.removeCartItem)
	r.Delete("/cart", a.clearCart)

	r.Post("/checkout", a.checkout)

	r.Get("/orders", a.listOrders)
	r.Get("/orders/{id}", a.getOrder)
	r.Get("/orders/{id}/status", a.getOrderStatus)
	r.Patch("/orders/{id}/status", a.updateOrderStatus)

	r.Post("/auth/login", a.login)
	r.Post("/auth/register", a.register)
	r.Post("/auth/logout", a.logout)
	r.Get("/auth/me", a.me)

	r.Get("/vendor/stats", a.vendorStats)
	r.Get("/admin/stats", a.adminStats)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
