/*
Package upstream is the client for the social-media REST API the service
proxies. The API returns loosely structured JSON with optional fields; this
package decodes it into explicit structs and applies the defaulting rules
(karma totals, avatar URL cleanup) in one place, so the rest of the service
never touches the raw shapes.
*/
package upstream

import (
	"context"
	"errors"
	"time"
)

// Sentinel failures for upstream statuses that handlers map differently
// from a generic fetch failure.
var (
	// ErrNotFound indicates the upstream API has no account with that name.
	ErrNotFound = errors.New("upstream account not found")

	// ErrRateLimited indicates the upstream API throttled the request.
	ErrRateLimited = errors.New("upstream rate limit exceeded")
)

// Karma is the subject's reputation score, split into its components.
type Karma struct {
	Post    int `json:"post"`
	Comment int `json:"comment"`
	Total   int `json:"total"`
}

// Account is the normalized subject account as fetched from upstream.
type Account struct {
	Name      string
	AvatarURL string
	Karma     Karma
	CreatedAt time.Time
}

// Subreddit is one community entry from an upstream listing.
type Subreddit struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Subscribers int    `json:"subscribers"`
	IconURL     string `json:"iconUrl,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Client is the narrow contract the rest of the service consumes. The first
// two calls hit public endpoints by username; the rest act on behalf of an
// authenticated session via its OAuth bearer token.
type Client interface {
	AboutUser(ctx context.Context, username string) (*Account, error)
	UserTrophies(ctx context.Context, username string) ([]string, error)

	Me(ctx context.Context, accessToken string) (*Account, error)
	MyTrophies(ctx context.Context, accessToken string) ([]string, error)
	MySubreddits(ctx context.Context, accessToken string, limit int) ([]Subreddit, error)
	PopularSubreddits(ctx context.Context, accessToken string, limit int) ([]Subreddit, error)
}
