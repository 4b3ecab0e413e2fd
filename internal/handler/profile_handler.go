/*
Package handler provides the HTTP handlers and routing for the share service.

This file covers profile resolution for share-link viewers: the public named
lookup and the anonymous path that re-checks the raw token before releasing
redacted statistics.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"karmashare/internal/pkg/errs"
	"karmashare/internal/pkg/resp"
	"karmashare/internal/session"
)

// HandleUserProfile resolves a named profile view by username. Used by
// viewers of non-anonymous share links after token verification.
func HandleUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		view, customErr := deps.Resolver.Named(r.Context(), username)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, view)
	}
}

// HandleAnonymousProfile resolves the redacted view behind an anonymous
// share link. The raw token must be re-presented in the X-Share-Token
// header and its verified subject must match the path subject; otherwise
// the request fails closed without releasing anything.
func HandleAnonymousProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		if userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token := r.Header.Get("X-Share-Token")
		if token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenMissing))
			return
		}

		payload := deps.Verifier.Verify(r.Context(), token)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		// Session is optional here; it only matters as the fallback identity
		// for tokens that carry no username.
		sess := session.FromRequest(r)

		view, customErr := deps.Resolver.ResolveAnonymous(r.Context(), payload, userID, sess)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, view)
	}
}
