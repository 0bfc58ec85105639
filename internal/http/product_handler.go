package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		respondError(r, w, err)
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	var filter domain.ProductFilter
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, domain.Validationf("invalid min_price %q", v)
		}
		filter.MinPrice = &min
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, domain.Validationf("invalid max_price %q", v)
		}
		filter.MaxPrice = &max
	}
	return filter, nil
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapProduct(product))
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Inventory   int     `json:"inventory"`
	CategoryID  string  `json:"category_id"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), CallerFromContext(r.Context()), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapProduct(product))
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Inventory   *int     `json:"inventory"`
	CategoryID  *string  `json:"category_id"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), CallerFromContext(r.Context()), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapProduct(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.DeleteProduct(r.Context(), CallerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
