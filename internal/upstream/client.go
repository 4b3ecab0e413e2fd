package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the endpoints and identification for the upstream API.
type Config struct {
	// BaseURL serves the public, unauthenticated JSON endpoints.
	BaseURL string

	// OAuthURL serves the endpoints that require a bearer token.
	OAuthURL string

	// UserAgent identifies this service to the upstream API, which rejects
	// requests without a descriptive one.
	UserAgent string
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient is the concrete Client over net/http. Each call is a single
// attempt scoped to the request context; retries are the caller's business.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewClient builds an HTTPClient with a bounded per-request timeout.
func NewClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// getJSON performs one GET and decodes the body into dst. A non-empty bearer
// is attached as the Authorization header.
func (c *HTTPClient) getJSON(ctx context.Context, rawURL, bearer string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case res.StatusCode < 200 || res.StatusCode > 299:
		return fmt.Errorf("upstream returned status %d for %s", res.StatusCode, rawURL)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding upstream response: %w", err)
	}

	return nil
}

// accountData is the raw account shape. total_karma is newer than the
// link/comment pair and may be absent.
type accountData struct {
	Name         string  `json:"name"`
	IconImg      string  `json:"icon_img"`
	LinkKarma    int     `json:"link_karma"`
	CommentKarma int     `json:"comment_karma"`
	TotalKarma   int     `json:"total_karma"`
	CreatedUTC   float64 `json:"created_utc"`
}

// normalize applies the defaulting rules: a missing total falls back to
// post+comment, and avatar URLs lose their query string.
func (d *accountData) normalize() *Account {
	total := d.TotalKarma
	if total == 0 {
		total = d.LinkKarma + d.CommentKarma
	}

	avatar := d.IconImg
	if idx := strings.IndexByte(avatar, '?'); idx >= 0 {
		avatar = avatar[:idx]
	}

	return &Account{
		Name:      d.Name,
		AvatarURL: avatar,
		Karma: Karma{
			Post:    d.LinkKarma,
			Comment: d.CommentKarma,
			Total:   total,
		},
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
	}
}

// aboutEnvelope wraps the public about endpoint's {kind, data} shape.
type aboutEnvelope struct {
	Data accountData `json:"data"`
}

// trophyEnvelope wraps the doubly nested trophy listing.
type trophyEnvelope struct {
	Data struct {
		Trophies []struct {
			Data struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"trophies"`
	} `json:"data"`
}

func (e *trophyEnvelope) names() []string {
	names := []string{}
	for _, t := range e.Data.Trophies {
		if t.Data.Name != "" {
			names = append(names, t.Data.Name)
		}
	}
	return names
}

// subredditData is the raw community shape from listings.
type subredditData struct {
	DisplayName       string  `json:"display_name"`
	Title             string  `json:"title"`
	Subscribers       int     `json:"subscribers"`
	IconImg           string  `json:"icon_img"`
	CommunityIcon     string  `json:"community_icon"`
	PublicDescription string  `json:"public_description"`
	URL               string  `json:"url"`
	CreatedUTC        float64 `json:"created_utc"`
}

func (d *subredditData) normalize() Subreddit {
	icon := d.IconImg
	if icon == "" {
		icon = d.CommunityIcon
	}

	return Subreddit{
		Name:        d.DisplayName,
		Title:       d.Title,
		Subscribers: d.Subscribers,
		IconURL:     icon,
		Description: d.PublicDescription,
		URL:         d.URL,
	}
}

// listingEnvelope wraps a subreddit listing.
type listingEnvelope struct {
	Data struct {
		Children []struct {
			Data subredditData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (e *listingEnvelope) subreddits() []Subreddit {
	subs := []Subreddit{}
	for _, child := range e.Data.Children {
		if child.Data.DisplayName == "" {
			continue
		}
		subs = append(subs, child.Data.normalize())
	}
	return subs
}

// AboutUser fetches a public account profile by username.
func (c *HTTPClient) AboutUser(ctx context.Context, username string) (*Account, error) {
	var envelope aboutEnvelope

	endpoint := fmt.Sprintf("%s/user/%s/about.json", c.cfg.BaseURL, url.PathEscape(username))
	if err := c.getJSON(ctx, endpoint, "", &envelope); err != nil {
		return nil, err
	}

	return envelope.Data.normalize(), nil
}

// UserTrophies fetches a public account's trophy names by username.
func (c *HTTPClient) UserTrophies(ctx context.Context, username string) ([]string, error) {
	var envelope trophyEnvelope

	endpoint := fmt.Sprintf("%s/user/%s/trophies.json", c.cfg.BaseURL, url.PathEscape(username))
	if err := c.getJSON(ctx, endpoint, "", &envelope); err != nil {
		return nil, err
	}

	return envelope.names(), nil
}

// Me fetches the authenticated account behind the bearer token. The OAuth
// endpoint returns the account fields without an envelope.
func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*Account, error) {
	var data accountData

	endpoint := c.cfg.OAuthURL + "/api/v1/me"
	if err := c.getJSON(ctx, endpoint, accessToken, &data); err != nil {
		return nil, err
	}

	return data.normalize(), nil
}

// MyTrophies fetches the authenticated account's trophy names.
func (c *HTTPClient) MyTrophies(ctx context.Context, accessToken string) ([]string, error) {
	var envelope trophyEnvelope

	endpoint := c.cfg.OAuthURL + "/api/v1/me/trophies"
	if err := c.getJSON(ctx, endpoint, accessToken, &envelope); err != nil {
		return nil, err
	}

	return envelope.names(), nil
}

// MySubreddits fetches the communities the authenticated account subscribes to.
func (c *HTTPClient) MySubreddits(ctx context.Context, accessToken string, limit int) ([]Subreddit, error) {
	var envelope listingEnvelope

	endpoint := fmt.Sprintf("%s/subreddits/mine/subscriber?limit=%d", c.cfg.OAuthURL, limit)
	if err := c.getJSON(ctx, endpoint, accessToken, &envelope); err != nil {
		return nil, err
	}

	return envelope.subreddits(), nil
}

// PopularSubreddits fetches the upstream popular-communities listing.
func (c *HTTPClient) PopularSubreddits(ctx context.Context, accessToken string, limit int) ([]Subreddit, error) {
	var envelope listingEnvelope

	endpoint := fmt.Sprintf("%s/subreddits/popular?limit=%d", c.cfg.OAuthURL, limit)
	if err := c.getJSON(ctx, endpoint, accessToken, &envelope); err != nil {
		return nil, err
	}

	return envelope.subreddits(), nil
}
