package profile

import (
	"context"
	"errors"
	"time"

	"karmashare/internal/pkg/errs"
	"karmashare/internal/pkg/logx"
	"karmashare/internal/session"
	"karmashare/internal/share"
	"karmashare/internal/upstream"
)

// Profile is the normalized view released to a share-link viewer. For
// anonymous links the identity fields stay empty and are omitted from JSON;
// the statistics are identical either way.
type Profile struct {
	Username    string         `json:"username,omitempty"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	Karma       upstream.Karma `json:"karma"`
	AccountAge  string         `json:"accountAge"`
	Trophies    []string       `json:"trophies"`
	IsAnonymous bool           `json:"isAnonymous"`
}

// Resolver decides how to obtain and shape the profile data behind a
// verified share payload.
type Resolver struct {
	client upstream.Client

	// now is the clock for account-age rendering. Tests substitute it.
	now func() time.Time
}

// NewResolver builds a Resolver over the upstream client.
func NewResolver(client upstream.Client) *Resolver {
	return &Resolver{
		client: client,
		now:    time.Now,
	}
}

// ResolveNamed produces the named view: identity fields included. The
// payload must carry a username; a token without one cannot complete this
// path.
func (r *Resolver) ResolveNamed(ctx context.Context, payload *share.Payload) (*Profile, *errs.CustomError) {
	return r.Named(ctx, payload.Username)
}

// Named is the named view by bare username, also exposed as a public
// profile lookup.
func (r *Resolver) Named(ctx context.Context, username string) (*Profile, *errs.CustomError) {
	if username == "" {
		return nil, errs.NewError(errs.ErrInsufficientData)
	}

	account, trophies, customErr := r.fetchByUsername(ctx, username)
	if customErr != nil {
		return nil, customErr
	}

	return &Profile{
		Username:    account.Name,
		AvatarURL:   account.AvatarURL,
		Karma:       account.Karma,
		AccountAge:  AccountAge(account.CreatedAt, r.now()),
		Trophies:    trophies,
		IsAnonymous: false,
	}, nil
}

// ResolveAnonymous produces the redacted view. subjectID is the subject the
// caller claims to be viewing; it must match the verified payload's embedded
// subject or the request fails closed with no data released. The real
// username still drives the server-side fetch; it just never reaches the
// response.
func (r *Resolver) ResolveAnonymous(ctx context.Context, payload *share.Payload, subjectID string, sess *session.Payload) (*Profile, *errs.CustomError) {
	if payload.UserID != subjectID {
		return nil, errs.NewError(errs.ErrTokenSubjectMismatch)
	}

	var account *upstream.Account
	var trophies []string
	var customErr *errs.CustomError

	if payload.Username != "" {
		account, trophies, customErr = r.fetchByUsername(ctx, payload.Username)
	} else {
		// A token with no embedded username: fall back to the current
		// caller's own session identity when one exists. Note the subjects
		// can differ here (token issuer vs. current viewer); kept for
		// compatibility with links issued before usernames were embedded.
		account, trophies, customErr = r.fetchBySession(ctx, sess)
	}
	if customErr != nil {
		return nil, customErr
	}

	return &Profile{
		Karma:       account.Karma,
		AccountAge:  AccountAge(account.CreatedAt, r.now()),
		Trophies:    trophies,
		IsAnonymous: true,
	}, nil
}

// fetchByUsername pulls the account and its trophies from the public
// endpoints. A trophy fetch failure degrades to an empty list; the account
// fetch failing fails the resolution.
func (r *Resolver) fetchByUsername(ctx context.Context, username string) (*upstream.Account, []string, *errs.CustomError) {
	account, err := r.client.AboutUser(ctx, username)
	if err != nil {
		return nil, nil, mapUpstreamError(err)
	}

	trophies, err := r.client.UserTrophies(ctx, username)
	if err != nil {
		logx.Warn("Failed to fetch trophies, continuing without them", "username", username, "error", err)
		trophies = []string{}
	}

	return account, trophies, nil
}

// fetchBySession pulls the caller's own account via its OAuth bearer.
func (r *Resolver) fetchBySession(ctx context.Context, sess *session.Payload) (*upstream.Account, []string, *errs.CustomError) {
	if sess == nil || sess.AccessToken == "" {
		return nil, nil, errs.NewError(errs.ErrInsufficientData)
	}

	account, err := r.client.Me(ctx, sess.AccessToken)
	if err != nil {
		return nil, nil, mapUpstreamError(err)
	}

	trophies, err := r.client.MyTrophies(ctx, sess.AccessToken)
	if err != nil {
		logx.Warn("Failed to fetch session trophies, continuing without them", "error", err)
		trophies = []string{}
	}

	return account, trophies, nil
}

// mapUpstreamError translates upstream sentinel failures into the error taxonomy.
func mapUpstreamError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return errs.NewError(errs.ErrUpstreamNotFound)
	case errors.Is(err, upstream.ErrRateLimited):
		return errs.NewError(errs.ErrUpstreamRateLimited)
	default:
		logx.Error(err, "Upstream profile fetch failed")
		return errs.NewError(errs.ErrUpstreamFailure)
	}
}
