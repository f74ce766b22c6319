package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jlsoftware/marketplace/internal/cart"
	"github.com/jlsoftware/marketplace/internal/market"
)

type cartView struct {
	Items             []market.CartItem `json:"items"`
	TotalItems        int               `json:"total_items"`
	TotalPrice        int               `json:"total_price"`
	TotalPriceDisplay string            `json:"total_price_display"`
}

func (a *App) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sid := r.Header.Get(HeaderSession)
	if sid == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSession+" header")
		return nil, false
	}
	c, err := a.Carts.Get(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return c, true
}

func viewOf(c *cart.Cart) cartView {
	total := c.TotalPrice()
	return cartView{
		Items:             c.Items(),
		TotalItems:        c.TotalItems(),
		TotalPrice:        total,
		TotalPriceDisplay: market.FormatPrice(total),
	}
}

func (a *App) getCart(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (a *App) addCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p, found := a.Catalog.ProductByID(req.ProductID)
	if !found {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err := c.Add(r.Context(), p, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (a *App) updateCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := c.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (a *App) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	if err := c.Remove(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (a *App) clearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := a.sessionCart(w, r)
	if !ok {
		return
	}
	if err := c.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}
