package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
	"github.com/jlsoftware/marketplace/internal/orders"
)

type checkoutReq struct {
	DeliveryLocation market.DeliveryLocation `json:"delivery_location"`
	PaymentMethod    string                  `json:"payment_method"`
}

// checkout turns the session's cart into an order. The cart is cleared
// only after the order has been created and persisted.
func (a *App) checkout(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	order, err := a.Ledger.Create(r.Context(), user, c.Items(), req.DeliveryLocation, market.PaymentMethod(req.PaymentMethod))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNoItems),
			errors.Is(err, orders.ErrInvalidPayment),
			errors.Is(err, market.ErrMissingDeliveryField):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		// order exists; an uncleared cart is recoverable by the client
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (a *App) listOrders(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	out := a.Ledger.For(user)
	if out == nil {
		out = []market.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) getOrder(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	order, found := a.Ledger.Get(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if !mayViewOrder(*user, order) {
		writeError(w, http.StatusForbidden, "not your order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// getOrderStatus answers from the Redis cache kept warm by the
// notifier, falling back to the ledger on a miss.
func (a *App) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if a.Redis != nil {
		key := fmt.Sprintf(kv.KeyOrderStatus, orderID)
		if s, err := a.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	order, found := a.Ledger.Get(orderID)
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	body := map[string]any{"status": order.Status}
	if a.Redis != nil {
		key := fmt.Sprintf(kv.KeyOrderStatus, orderID)
		_ = a.Redis.Set(r.Context(), key, string(mustJSON(body)), kv.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, body)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (a *App) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	switch user.Role {
	case market.RoleVendor, market.RoleAdmin:
	case market.RoleCustomer:
		writeError(w, http.StatusForbidden, "vendors and admins only")
		return
	default:
		writeError(w, http.StatusForbidden, "vendors and admins only")
		return
	}

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	status, ok := market.ParseOrderStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	order, err := a.Ledger.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *App) vendorStats(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if user.Role != market.RoleVendor {
		writeError(w, http.StatusForbidden, "vendors only")
		return
	}
	writeJSON(w, http.StatusOK, a.Ledger.VendorStats(user.ID, a.Catalog.CountByVendor(user.ID)))
}

func (a *App) adminStats(w http.ResponseWriter, r *http.Request) {
	user, err := a.Sessions.Current(r.Context(), r.Header.Get(HeaderSession))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if user.Role != market.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins only")
		return
	}
	users, err := a.Sessions.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats := a.Ledger.AdminStats(len(users), len(a.Catalog.VendorIDs()), len(a.Catalog.Products()))
	writeJSON(w, http.StatusOK, stats)
}

// mayViewOrder is advisory scoping, not an auth boundary.
func mayViewOrder(u market.User, o market.Order) bool {
	switch u.Role {
	case market.RoleAdmin:
		return true
	case market.RoleVendor:
		return o.VendorID == u.ID
	case market.RoleCustomer:
		return o.CustomerID == u.ID
	default:
		return false
	}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
