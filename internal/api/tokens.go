package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/store"
)

type createTokenRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

// CreateToken mints a named API token for the authenticated creator.
func (api *Api) CreateToken(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	creator, err := api.store.GetCreatorByID(r.Context(), creatorID)
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	ttl := api.Config.TokenTTL()
	signed, err := api.tokens.GenerateToken(creatorID, creator.Email, ttl)
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	token, err := api.store.CreateAPIToken(r.Context(), creatorID, req.Name, signed, time.Now().Add(ttl))
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, token)
}

// ListTokens returns the creator's active API tokens.
func (api *Api) ListTokens(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tokens, err := api.store.ListAPITokens(r.Context(), creatorID)
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, tokens)
}

// DeleteToken revokes one of the creator's API tokens.
func (api *Api) DeleteToken(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "tokenID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid token id")
		return
	}

	err = api.store.DeleteAPIToken(r.Context(), creatorID, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "token not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
