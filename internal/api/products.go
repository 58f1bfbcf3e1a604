package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/store"
)

type addProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"required,max=512"`
	Price       string `json:"price" validate:"required,max=32"`
	Image       string `json:"image" validate:"required,url"`
}

// AddProduct lists a new product for the authenticated creator.
func (api *Api) AddProduct(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Price = strings.TrimSpace(req.Price)
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := &models.Product{
		CreatorID:   creatorID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	}
	if err := api.store.CreateProduct(r.Context(), product); err != nil {
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]any{
		"product_id": product.ID,
		"image":      product.Image,
	})
}

// GetProduct returns the public product page payload.
func (api *Api) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := api.store.GetProductWithStore(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"image":       p.Image,
		"price":       p.Price,
		"storeDetails": map[string]any{
			"storeName": p.StoreName,
			"userName":  p.UserName,
			"whatsapp":  p.Whatsapp,
			"instagram": p.Instagram,
			"profile":   p.Profile,
		},
	})
}

// DeleteProduct removes one of the authenticated creator's products and
// queues its image for deletion.
func (api *Api) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err = api.store.DeleteProduct(r.Context(), id, creatorID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, store.ErrNotOwner):
		respondError(w, http.StatusForbidden, "product does not belong to you")
		return
	case err != nil:
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]int64{"productId": id})
}

// Market lists every product across all stores.
func (api *Api) Market(w http.ResponseWriter, r *http.Request) {
	products, err := api.store.MarketProducts(r.Context())
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, products)
}

// Creators lists the public summary of every registered creator.
func (api *Api) Creators(w http.ResponseWriter, r *http.Request) {
	creators, err := api.store.ListCreators(r.Context())
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, creators)
}

// StorePage returns a creator's public storefront: their details plus all
// of their products.
func (api *Api) StorePage(w http.ResponseWriter, r *http.Request) {
	storeName := chi.URLParam(r, "storeName")

	creator, err := api.store.GetCreatorByStoreName(r.Context(), storeName)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "store not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	products, err := api.store.ListProductsByCreator(r.Context(), creator.ID)
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"userName":    creator.UserName,
		"storeName":   creator.StoreName,
		"title":       creator.Title,
		"whatsapp":    creator.Whatsapp,
		"instagram":   creator.Instagram,
		"profile":     creator.Profile,
		"connections": creator.Connections,
		"products":    products,
	})
}

// Connect bumps a store's connection counter.
func (api *Api) Connect(w http.ResponseWriter, r *http.Request) {
	storeName := chi.URLParam(r, "storeName")

	err := api.store.IncrementConnections(r.Context(), storeName)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "store not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "+1 connection")
}
