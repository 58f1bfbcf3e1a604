// Package api wires the HTTP surface: route dispatch, request validation,
// and one handler per endpoint.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/artbucket-io/artbucket/internal/auth"
	"github.com/artbucket-io/artbucket/internal/config"
	"github.com/artbucket-io/artbucket/internal/logging"
	"github.com/artbucket-io/artbucket/internal/mail"
	"github.com/artbucket-io/artbucket/internal/store"
)

// Uploader stores an uploaded image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Api struct {
	Config   *config.Config
	Router   *chi.Mux
	store    *store.Store
	sessions *auth.Sessions
	tokens   *auth.TokenManager
	mailer   mail.Mailer
	uploader Uploader
	log      logging.Logger
}

func NewApi(cfg *config.Config, st *store.Store, sessions *auth.Sessions, tokens *auth.TokenManager, mailer mail.Mailer, uploader Uploader, log logging.Logger) *Api {
	api := &Api{
		Config:   cfg,
		Router:   chi.NewRouter(),
		store:    st,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		uploader: uploader,
		log:      log.With("component", "api"),
	}
	api.setupRoutes()
	return api
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/heartbeat", api.Heartbeat)

	// Public routes
	r.Get("/", api.Index)
	r.Post("/register", api.Register)
	r.Post("/login", api.Login)
	r.Get("/logout", api.Logout)
	r.Post("/join", api.Join)
	r.Get("/market", api.Market)
	r.Get("/creators", api.Creators)
	r.Get("/store/{storeName}", api.StorePage)
	r.Get("/product/{productID}", api.GetProduct)
	r.Get("/connects/{storeName}", api.Connect)

	// Session- or token-gated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(api.sessions, api.tokens, api.store, api.authError))
		r.Get("/dashboard", api.Dashboard)
		r.Post("/invite", api.Invite)
		r.Post("/image", api.UploadImage)
		r.Post("/profile", api.EditProfile)
		r.Delete("/profile", api.DeleteProfile)
		r.Post("/product", api.AddProduct)
		r.Delete("/product/{productID}", api.DeleteProduct)
		r.Post("/tokens", api.CreateToken)
		r.Get("/tokens", api.ListTokens)
		r.Delete("/tokens/{tokenID}", api.DeleteToken)
	})
}

func (api *Api) authError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondError(w, status, msg)
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Serve starts the HTTP server and the hourly session sweep.
func (api *Api) Serve() error {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			if err := api.sessions.CleanupExpired(context.Background()); err != nil {
				api.log.Error(context.Background(), "failed to clean up expired sessions", "error", err)
			}
			<-ticker.C
		}
	}()

	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	api.log.Info(context.Background(), "starting API server", "addr", addr)
	return http.ListenAndServe(addr, api.Router)
}
