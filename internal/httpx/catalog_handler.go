package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jlsoftware/marketplace/internal/catalog"
)

func (a *App) listProducts(w http.ResponseWriter, r *http.Request) {
	q := catalog.Query{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
		Sort:     catalog.Sort(r.URL.Query().Get("sort")),
	}
	writeJSON(w, http.StatusOK, q.Apply(a.Catalog.Products()))
}

func (a *App) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := a.Catalog.ProductByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.Categories())
}
