/*
Package handler provides the HTTP handlers and routing for the share service.

This file assembles the chi router: CORS, request logging, panic recovery,
identity extraction, and IP rate limiting on the issuance path, then the
share, profile, and dashboard routes.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"karmashare/internal/pkg/limiter"
	"karmashare/internal/pkg/logx"
	"karmashare/internal/pkg/resp"
	"karmashare/internal/session"
)

const (
	// Issuance is cheap to abuse (every call mints a signed capability), so
	// it gets the tightest bucket.
	CreateRate  = 0.1
	CreateBurst = 3

	// Resolution endpoints serve unauthenticated viewers and face the open
	// internet.
	ResolveRate  = 1.0
	ResolveBurst = 10
)

// Router builds the application's routing table.
func Router(deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	resolveLimiter := limiter.NewIPRateLimiter(rate.Limit(ResolveRate), ResolveBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Share-Token"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "karmashare",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(session.IdentityExtractorMiddleware(deps.Config.ShareSecret))

		api.Route("/share", func(sh chi.Router) {
			sh.With(createLimiter.Middleware).Post("/create", HandleCreateShare(deps))
			sh.Get("/verify", HandleVerifyShare(deps))
			sh.Post("/revoke", HandleRevokeShare(deps))
			sh.Get("/history", HandleShareHistory(deps))
		})

		api.With(resolveLimiter.Middleware).Get("/profile", HandleUserProfile(deps))
		api.With(resolveLimiter.Middleware).Get("/profile/anonymous/{userId}", HandleAnonymousProfile(deps))

		api.Get("/me/trophies", HandleMyTrophies(deps))

		api.Route("/subreddits", func(sr chi.Router) {
			sr.Get("/subscribed", HandleSubscribed(deps))
			sr.Get("/trending", HandleTrending(deps))
		})
	})

	return r
}
