package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/store"
)

const maxUploadSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type editProfileRequest struct {
	UserName  string `json:"userName" validate:"required,min=4,max=32"`
	StoreName string `json:"storeName" validate:"required,min=4,max=32"`
	Title     string `json:"title" validate:"max=32"`
	Whatsapp  string `json:"whatsapp" validate:"max=64"`
	Instagram string `json:"instagram" validate:"max=64"`
}

type dashboardProduct struct {
	ProductID int64  `json:"product_id"`
	Image     string `json:"image"`
}

// Dashboard returns the authenticated creator's account details together
// with a thumbnail list of their products.
func (api *Api) Dashboard(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	creator, err := api.store.GetCreatorByID(r.Context(), creatorID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "creator not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	products, err := api.store.ListProductsByCreator(r.Context(), creatorID)
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	thumbs := make([]dashboardProduct, 0, len(products))
	for _, p := range products {
		thumbs = append(thumbs, dashboardProduct{ProductID: p.ID, Image: p.Image})
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"id":          creator.ID,
		"userName":    creator.UserName,
		"storeName":   creator.StoreName,
		"title":       creator.Title,
		"whatsapp":    creator.Whatsapp,
		"instagram":   creator.Instagram,
		"profile":     creator.Profile,
		"connections": creator.Connections,
		"products":    thumbs,
	})
}

// UploadImage accepts a multipart image and stores it. With a productId form
// value the object key is unique per upload; without one the image becomes
// the creator's profile picture, overwriting the previous object.
func (api *Api) UploadImage(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		respondError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	folder := api.Config.Storage.Folder
	var key string
	if productID := r.FormValue("productId"); productID != "" {
		key = fmt.Sprintf("%s/product_%s_%s", folder, productID, uuid.NewString())
	} else {
		key = fmt.Sprintf("%s/profile_%d", folder, creatorID)
	}

	url, err := api.uploader.Upload(r.Context(), key, file, contentType)
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	if r.FormValue("productId") == "" {
		if err := api.store.UpdateProfileImage(r.Context(), creatorID, url); err != nil {
			api.serverError(w, r, err)
			return
		}
	}

	respondSuccess(w, http.StatusOK, url)
}

// EditProfile updates the creator's public details.
func (api *Api) EditProfile(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req editProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.StoreName = strings.TrimSpace(req.StoreName)
	req.Title = strings.TrimSpace(req.Title)
	req.Whatsapp = strings.TrimSpace(req.Whatsapp)
	req.Instagram = strings.TrimSpace(req.Instagram)
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := api.store.UpdateProfile(r.Context(), creatorID, req.UserName, req.StoreName, req.Title, req.Whatsapp, req.Instagram)
	switch {
	case errors.Is(err, store.ErrStoreNameTaken):
		respondError(w, http.StatusBadRequest, fmt.Sprintf("the storename '%s' is already taken", req.StoreName))
		return
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "creator not found")
		return
	case err != nil:
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]string{
		"userName":  req.UserName,
		"storeName": req.StoreName,
		"title":     req.Title,
		"whatsapp":  req.Whatsapp,
		"instagram": req.Instagram,
	})
}

// DeleteProfile removes the creator's account, their products, and queues
// every backing asset for deletion.
func (api *Api) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := auth.CreatorIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	deleted, err := api.store.DeleteCreator(r.Context(), creatorID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "creator not found")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	api.sessions.ClearCookie(w)
	api.log.Info(r.Context(), "creator account deleted", "creatorID", creatorID, "deletedProducts", deleted)
	respondSuccess(w, http.StatusOK, "account deleted")
}
