package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = mapCategory(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapCategory(category))
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), CallerFromContext(r.Context()), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapCategory(category))
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), CallerFromContext(r.Context()), chi.URLParam(r, "id"), service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapCategory(category))
}
