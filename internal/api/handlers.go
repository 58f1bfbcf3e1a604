package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/invite"
	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/store"
)

// dummyHash keeps login timing comparable when the email does not exist.
var dummyHash, _ = auth.HashPassword("correct horse battery staple")

type registerRequest struct {
	UserName        string `json:"userName" validate:"required,min=4,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Title           string `json:"title" validate:"max=32"`
	StoreName       string `json:"storeName" validate:"required,min=4,max=32"`
	Password        string `json:"password" validate:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=32"`
}

type joinRequest struct {
	EmailInvite string `json:"emailInvite" validate:"required"`
}

type inviteRequest struct {
	InviteEmail string `json:"inviteEmail" validate:"required,email"`
	InvitedBy   string `json:"invitedBy" validate:"required"`
}

// Index returns the denormalized creator and product totals.
func (api *Api) Index(w http.ResponseWriter, r *http.Request) {
	creators, products, err := api.store.Counts(r.Context())
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]int64{
		"creatorCount": creators,
		"productCount": products,
	})
}

// Register creates a new creator account.
func (api *Api) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	req.Title = strings.TrimSpace(req.Title)
	req.StoreName = strings.TrimSpace(req.StoreName)

	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	id, err := api.store.CreateCreator(r.Context(), &models.Creator{
		UserName:   req.UserName,
		Email:      req.Email,
		StoreName:  req.StoreName,
		Title:      req.Title,
		HashedPass: hashed,
	})
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, fmt.Sprintf("user with email '%s' already exists", req.Email))
		return
	case errors.Is(err, store.ErrStoreNameTaken):
		respondError(w, http.StatusBadRequest, fmt.Sprintf("the storename '%s' is already taken", req.StoreName))
		return
	case err != nil:
		api.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, fmt.Sprintf("UserId: %d", id))
}

// Login verifies credentials and mints a session. Unknown emails and wrong
// passwords produce the same response, so the endpoint cannot be used to
// enumerate accounts.
func (api *Api) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	creator, err := api.store.GetCreatorByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		auth.CheckPassword(dummyHash, req.Password)
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		api.serverError(w, r, err)
		return
	}

	if !auth.CheckPassword(creator.HashedPass, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	sess, err := api.sessions.Create(r.Context(), creator.ID)
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	if err := api.store.SetSessionToken(r.Context(), creator.ID, sess.Token); err != nil {
		api.serverError(w, r, err)
		return
	}

	api.sessions.SetCookie(w, sess.Token)
	respondSuccess(w, http.StatusOK, "login successful")
}

// Logout invalidates the session if one is present. It succeeds either way.
func (api *Api) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(api.sessions.CookieName()); err == nil && cookie.Value != "" {
		if err := api.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			api.log.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}
	api.sessions.ClearCookie(w)
	respondSuccess(w, http.StatusOK, "UNAUTHENTICATED")
}

// Join decodes an invite code back to the invited email.
func (api *Api) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	email, err := invite.Decode(strings.TrimSpace(req.EmailInvite))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invite code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"emailInvite": email})
}

// Invite emails an invite code to a prospective creator. The mail send is
// best-effort: a failure is logged but does not fail the request.
func (api *Api) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.InviteEmail = strings.TrimSpace(req.InviteEmail)
	req.InvitedBy = strings.TrimSpace(req.InvitedBy)
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	registered, err := api.store.EmailRegistered(r.Context(), req.InviteEmail)
	if err != nil {
		api.serverError(w, r, err)
		return
	}
	if registered {
		respondError(w, http.StatusBadRequest, "user is already registered")
		return
	}

	code := invite.Encode(req.InviteEmail)
	if err := api.mailer.SendInvite(req.InviteEmail, req.InvitedBy, code); err != nil {
		api.log.Error(r.Context(), "failed to send invite mail", "to", req.InviteEmail, "error", err)
	}

	respondSuccess(w, http.StatusOK, "invite sent successfully")
}
