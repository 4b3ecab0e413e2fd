/*
Package handler provides the HTTP handlers and routing for the share service.

This file covers the share-token lifecycle: issuing a shareable link,
verifying an inbound token, revoking a link, and listing a subject's
issuance history.
*/
package handler

import (
	"net/http"
	"time"

	"karmashare/internal/pkg/errs"
	"karmashare/internal/pkg/logx"
	"karmashare/internal/pkg/req"
	"karmashare/internal/pkg/resp"
	"karmashare/internal/session"
)

// shareHistoryLimit caps how many issued links the history endpoint returns.
const shareHistoryLimit = 50

type CreateShareInput struct {
	ExpiryOption string `json:"expiryOption"`
	IsAnonymous  bool   `json:"isAnonymous"`
	BaseURL      string `json:"baseUrl"`
}

// HandleCreateShare issues a share token plus URL for the authenticated
// session under the requested expiry and anonymity policy.
func HandleCreateShare(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
			return
		}

		var input CreateShareInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		link, err := deps.Issuer.CreateShareLink(
			r.Context(),
			sess,
			input.ExpiryOption,
			input.IsAnonymous,
			input.BaseURL,
			r.Header.Get("Origin"),
		)
		if err != nil {
			logx.Error(err, "Failed to create share link")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, link)
	}
}

// HandleVerifyShare validates a share token passed as a query parameter and
// returns its payload. Every verification failure looks the same to the
// caller.
func HandleVerifyShare(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenMissing))
			return
		}

		payload := deps.Verifier.Verify(r.Context(), token)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"isValid":   true,
			"tokenData": payload,
		})
	}
}

type RevokeShareInput struct {
	Token string `json:"token"`
}

// HandleRevokeShare kills a previously issued share link before its expiry.
// The caller must present the raw token and own its subject; possession of
// a token id alone is not enough to revoke someone else's link.
func HandleRevokeShare(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
			return
		}

		if deps.Revocations == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrRevocationUnavailable))
			return
		}

		var input RevokeShareInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenMissing))
			return
		}

		payload := deps.Verifier.Verify(r.Context(), input.Token)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		if payload.UserID != sess.Name {
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenSubjectMismatch))
			return
		}

		expiresAt := time.Unix(payload.ExpiresAt, 0)
		if err := deps.Revocations.Revoke(r.Context(), payload.Id, expiresAt); err != nil {
			logx.Error(err, "Failed to revoke share token", "token_id", payload.Id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Share token revoked", "token_id", payload.Id, "subject", payload.UserID)

		resp.RespondSuccess(w, r, map[string]any{
			"revoked": true,
			"tokenId": payload.Id,
		})
	}
}

// HandleShareHistory lists the authenticated subject's issued share links
// from the audit log, newest first.
func HandleShareHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
			return
		}

		if deps.Audit == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrShareHistoryUnavailable))
			return
		}

		// Links issued for sessions without a display name got a random
		// subject id and cannot be looked up again.
		if sess.Name == "" {
			resp.RespondSuccess(w, r, map[string]any{"links": []any{}})
			return
		}

		records, err := deps.Audit.ListBySubject(r.Context(), sess.Name, shareHistoryLimit)
		if err != nil {
			logx.Error(err, "Failed to list share history", "subject", sess.Name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"links": records,
		})
	}
}
