package share

import (
	"context"
	"strings"
	"time"

	"karmashare/internal/pkg/logx"
	"karmashare/internal/pkg/randx"
	"karmashare/internal/session"
	"karmashare/internal/store"
)

// SharedPathPrefix is the fixed URL path under which share tokens are served.
const SharedPathPrefix = "/shared/"

// developmentOrigin is the last-resort origin for share URLs when neither
// the caller, the request, nor the configuration provides one.
const developmentOrigin = "http://localhost:3000"

// ShareLink is the result of a successful issuance: the token, the full
// shareable URL, and the policy the token was minted with.
type ShareLink struct {
	Token       string `json:"shareToken"`
	URL         string `json:"shareUrl"`
	ExpiresIn   string `json:"expiresIn"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// Issuer turns an authenticated session plus a user-chosen sharing policy
// into a signed token and a shareable URL.
type Issuer struct {
	codec   *Codec
	baseURL string

	// audit records issued links when configured; issuance never fails on it.
	audit store.AuditLog
}

// NewIssuer builds an Issuer. baseURL is the configured canonical origin and
// may be empty; audit may be nil.
func NewIssuer(codec *Codec, baseURL string, audit store.AuditLog) *Issuer {
	return &Issuer{
		codec:   codec,
		baseURL: baseURL,
		audit:   audit,
	}
}

// CreateShareLink issues a share token for the session's subject under the
// chosen expiry and anonymity policy and wraps it in a shareable URL.
// Either the whole link is produced or an error is returned; there are no
// partial results. An unrecognized expiry option resolves to the 7-day
// default rather than failing.
func (i *Issuer) CreateShareLink(ctx context.Context, sess *session.Payload, expiryOption string, isAnonymous bool, originHint, requestOrigin string) (*ShareLink, error) {
	expiry := ResolveExpiry(expiryOption)

	// The display name doubles as subject id. A session without one still
	// gets a stable opaque id so the token always names a subject.
	userID := sess.Name
	if userID == "" {
		generated, err := randx.SubjectID()
		if err != nil {
			return nil, err
		}
		userID = generated
	}

	payload := &Payload{
		UserID:      userID,
		Created:     time.Now().UnixMilli(),
		IsAnonymous: isAnonymous,
	}

	// The username is always embedded when the session has one, anonymous or
	// not: the server needs it to fetch real data. The resolution policy is
	// what keeps it away from anonymous viewers.
	if sess.Name != "" {
		payload.Username = sess.Name
	}

	token, err := i.codec.Encode(payload, expiry)
	if err != nil {
		return nil, err
	}

	origin := resolveOrigin(originHint, requestOrigin, i.baseURL)

	link := &ShareLink{
		Token:       token,
		URL:         origin + SharedPathPrefix + token,
		ExpiresIn:   expiry.Label,
		IsAnonymous: isAnonymous,
	}

	if i.audit != nil {
		record := &store.ShareRecord{
			TokenID:     payload.Id,
			Subject:     payload.UserID,
			IsAnonymous: isAnonymous,
			ExpiresIn:   expiry.Label,
			CreatedAt:   time.UnixMilli(payload.Created),
			ExpiresAt:   time.Unix(payload.ExpiresAt, 0),
		}
		if err := i.audit.RecordIssued(ctx, record); err != nil {
			logx.Warn("Failed to record issued share link", "token_id", payload.Id, "error", err)
		}
	}

	return link, nil
}

// resolveOrigin picks the origin for the share URL: explicit caller hint,
// then the request's Origin header, then the configured canonical URL, then
// the local development fallback. Tried strictly in that order.
func resolveOrigin(hint, requestOrigin, configured string) string {
	origin := hint
	if origin == "" {
		origin = requestOrigin
	}
	if origin == "" {
		origin = configured
	}
	if origin == "" {
		origin = developmentOrigin
	}

	return strings.TrimSuffix(origin, "/")
}
