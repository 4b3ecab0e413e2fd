package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"karmashare/internal/configs"
	"karmashare/internal/pkg/errs"
	"karmashare/internal/profile"
	"karmashare/internal/session"
	"karmashare/internal/share"
	"karmashare/internal/store"
	"karmashare/internal/upstream"
)

const testSecret = "handler-test-secret"

// fakeUpstream serves canned upstream data for end-to-end handler tests.
type fakeUpstream struct {
	account  *upstream.Account
	trophies []string
	mine     []upstream.Subreddit
	popular  []upstream.Subreddit
}

func (f *fakeUpstream) AboutUser(_ context.Context, username string) (*upstream.Account, error) {
	if f.account == nil || f.account.Name != username {
		return nil, upstream.ErrNotFound
	}
	return f.account, nil
}

func (f *fakeUpstream) UserTrophies(_ context.Context, _ string) ([]string, error) {
	return f.trophies, nil
}

func (f *fakeUpstream) Me(_ context.Context, accessToken string) (*upstream.Account, error) {
	if accessToken == "" {
		return nil, upstream.ErrNotFound
	}
	return f.account, nil
}

func (f *fakeUpstream) MyTrophies(_ context.Context, _ string) ([]string, error) {
	return f.trophies, nil
}

func (f *fakeUpstream) MySubreddits(_ context.Context, _ string, _ int) ([]upstream.Subreddit, error) {
	return f.mine, nil
}

func (f *fakeUpstream) PopularSubreddits(_ context.Context, _ string, _ int) ([]upstream.Subreddit, error) {
	return f.popular, nil
}

// memAudit is an in-memory AuditLog standing in for Postgres.
type memAudit struct {
	records []store.ShareRecord
}

func (m *memAudit) RecordIssued(_ context.Context, record *store.ShareRecord) error {
	m.records = append(m.records, *record)
	return nil
}

func (m *memAudit) ListBySubject(_ context.Context, subject string, limit int) ([]store.ShareRecord, error) {
	matched := []store.ShareRecord{}
	for _, record := range m.records {
		if record.Subject == subject && len(matched) < limit {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (m *memAudit) Close() {}

func defaultUpstream() *fakeUpstream {
	return &fakeUpstream{
		account: &upstream.Account{
			Name:      "spez",
			AvatarURL: "https://img.example/avatar.png",
			Karma:     upstream.Karma{Post: 120, Comment: 340, Total: 460},
			CreatedAt: time.Now().AddDate(-3, 0, 0),
		},
		trophies: []string{"Verified Email"},
		mine: []upstream.Subreddit{
			{Name: "golang", Subscribers: 250000},
		},
		popular: []upstream.Subreddit{
			{Name: "golang", Subscribers: 250000},
			{Name: "programming", Subscribers: 500000},
			{Name: "science", Subscribers: 400000},
		},
	}
}

// newTestDeps wires a full dependency graph over fakes: memory revocations,
// in-memory audit, canned upstream.
func newTestDeps(up upstream.Client) (*AppDeps, func()) {
	cfg := &configs.AppConfig{
		Environment: "development",
		ShareSecret: testSecret,
		BaseURL:     "https://karma.example",
	}

	codec := share.NewCodec(cfg.ShareSecret)
	revocations := store.NewMemoryRevocations(time.Minute)
	audit := &memAudit{}

	deps := &AppDeps{
		Config:      cfg,
		Issuer:      share.NewIssuer(codec, cfg.BaseURL, audit),
		Verifier:    share.NewVerifier(codec, revocations),
		Resolver:    profile.NewResolver(up),
		Upstream:    up,
		Revocations: revocations,
		Audit:       audit,
	}

	return deps, func() { revocations.Close() }
}

func sessionHeader(t *testing.T, name, accessToken string) string {
	t.Helper()
	token, err := session.GenerateToken(&session.Payload{Name: name, AccessToken: accessToken}, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	return "Bearer " + token
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, target, auth string, body any, extraHeaders map[string]string) (int, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for key, value := range extraHeaders {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope from %q: %v", rec.Body.String(), err)
	}
	return rec.Code, &env
}

func createShare(t *testing.T, handler http.Handler, auth string, input CreateShareInput) *share.ShareLink {
	t.Helper()

	status, env := doRequest(t, handler, http.MethodPost, "/api/share/create", auth, input, nil)
	if status != http.StatusOK {
		t.Fatalf("create status = %d, body code %d %q", status, env.Code, env.Message)
	}

	var link share.ShareLink
	if err := json.Unmarshal(env.Data, &link); err != nil {
		t.Fatalf("decoding share link: %v", err)
	}
	return &link
}

func TestHealth(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)

	status, env := doRequest(t, router, http.MethodGet, "/health", "", nil, nil)
	if status != http.StatusOK || env.Code != 0 {
		t.Errorf("status = %d code = %d", status, env.Code)
	}
}

func TestCreateShareRequiresSession(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)

	status, env := doRequest(t, router, http.MethodPost, "/api/share/create", "", CreateShareInput{ExpiryOption: "24h"}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if env.Code != errs.ErrUnauthenticated {
		t.Errorf("code = %d, want %d", env.Code, errs.ErrUnauthenticated)
	}
}

func TestCreateShareRejectsUnknownFields(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	status, env := doRequest(t, router, http.MethodPost, "/api/share/create", auth,
		map[string]any{"expiryOption": "24h", "surprise": true}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if env.Code != errs.ErrInvalidJSONFormat {
		t.Errorf("code = %d, want %d", env.Code, errs.ErrInvalidJSONFormat)
	}
}

func TestCreateAndResolveNamedShare(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	link := createShare(t, router, auth, CreateShareInput{ExpiryOption: "24h", IsAnonymous: false})

	if link.ExpiresIn != "24h" {
		t.Errorf("ExpiresIn = %q, want %q", link.ExpiresIn, "24h")
	}
	if !strings.HasPrefix(link.URL, "https://karma.example/shared/") {
		t.Errorf("URL = %q, want configured base plus shared path", link.URL)
	}
	if !strings.HasSuffix(link.URL, link.Token) {
		t.Errorf("URL %q does not end with the token", link.URL)
	}

	// The viewer verifies the token with no session at all.
	status, env := doRequest(t, router, http.MethodGet, "/api/share/verify?token="+link.Token, "", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("verify status = %d", status)
	}
	var verified struct {
		IsValid   bool          `json:"isValid"`
		TokenData share.Payload `json:"tokenData"`
	}
	if err := json.Unmarshal(env.Data, &verified); err != nil {
		t.Fatalf("decoding verify data: %v", err)
	}
	if !verified.IsValid || verified.TokenData.Username != "spez" {
		t.Errorf("verify data = %+v", verified)
	}

	// Then fetches the named profile.
	status, env = doRequest(t, router, http.MethodGet, "/api/profile?username=spez", "", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	var view profile.Profile
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if view.Username != "spez" || view.IsAnonymous {
		t.Errorf("profile = %+v, want named view", view)
	}
	if view.Karma.Total != 460 {
		t.Errorf("Karma.Total = %d", view.Karma.Total)
	}
}

func TestAnonymousShareFlow(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	link := createShare(t, router, auth, CreateShareInput{ExpiryOption: "7days", IsAnonymous: true})
	if !link.IsAnonymous {
		t.Fatal("link not marked anonymous")
	}

	// The anonymous profile path requires the raw token in a header and the
	// subject from the token itself. The display name is the subject here.
	status, env := doRequest(t, router, http.MethodGet, "/api/profile/anonymous/spez", "", nil,
		map[string]string{"X-Share-Token": link.Token})
	if status != http.StatusOK {
		t.Fatalf("anonymous profile status = %d code %d", status, env.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		t.Fatalf("decoding anonymous profile: %v", err)
	}
	if _, present := raw["username"]; present {
		t.Error("anonymous view leaked the username field")
	}
	if _, present := raw["avatarUrl"]; present {
		t.Error("anonymous view leaked the avatarUrl field")
	}

	var view profile.Profile
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding anonymous profile: %v", err)
	}
	if !view.IsAnonymous || view.Karma.Total != 460 {
		t.Errorf("anonymous view = %+v", view)
	}
}

func TestAnonymousProfileFailsClosed(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	link := createShare(t, router, auth, CreateShareInput{ExpiryOption: "24h", IsAnonymous: true})

	tests := []struct {
		name       string
		target     string
		token      string
		wantStatus int
		wantCode   int
	}{
		{"missing token header", "/api/profile/anonymous/spez", "", http.StatusBadRequest, errs.ErrTokenMissing},
		{"garbage token", "/api/profile/anonymous/spez", "nonsense", http.StatusUnauthorized, errs.ErrInvalidToken},
		{"subject mismatch", "/api/profile/anonymous/intruder", link.Token, http.StatusUnauthorized, errs.ErrTokenSubjectMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token != "" {
				headers["X-Share-Token"] = tt.token
			}

			status, env := doRequest(t, router, http.MethodGet, tt.target, "", nil, headers)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if env.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", env.Code, tt.wantCode)
			}
		})
	}
}

func TestVerifyShareMissingToken(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)

	status, env := doRequest(t, router, http.MethodGet, "/api/share/verify", "", nil, nil)
	if status != http.StatusBadRequest || env.Code != errs.ErrTokenMissing {
		t.Errorf("status = %d code = %d", status, env.Code)
	}
}

func TestRevokeFlow(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	owner := sessionHeader(t, "spez", "oauth-token")
	stranger := sessionHeader(t, "mallory", "oauth-token")

	link := createShare(t, router, owner, CreateShareInput{ExpiryOption: "24h"})

	// Unauthenticated callers cannot revoke.
	status, env := doRequest(t, router, http.MethodPost, "/api/share/revoke", "", RevokeShareInput{Token: link.Token}, nil)
	if status != http.StatusUnauthorized || env.Code != errs.ErrUnauthenticated {
		t.Errorf("unauthenticated revoke: status = %d code = %d", status, env.Code)
	}

	// Another subject cannot revoke someone else's link.
	status, env = doRequest(t, router, http.MethodPost, "/api/share/revoke", stranger, RevokeShareInput{Token: link.Token}, nil)
	if status != http.StatusUnauthorized || env.Code != errs.ErrTokenSubjectMismatch {
		t.Errorf("stranger revoke: status = %d code = %d", status, env.Code)
	}

	// The link still works.
	status, _ = doRequest(t, router, http.MethodGet, "/api/share/verify?token="+link.Token, "", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("verify before revoke: status = %d", status)
	}

	// The owner revokes it.
	status, env = doRequest(t, router, http.MethodPost, "/api/share/revoke", owner, RevokeShareInput{Token: link.Token}, nil)
	if status != http.StatusOK {
		t.Fatalf("owner revoke: status = %d code = %d", status, env.Code)
	}

	// From now on the token is indistinguishable from an invalid one.
	status, env = doRequest(t, router, http.MethodGet, "/api/share/verify?token="+link.Token, "", nil, nil)
	if status != http.StatusUnauthorized || env.Code != errs.ErrInvalidToken {
		t.Errorf("verify after revoke: status = %d code = %d", status, env.Code)
	}
}

func TestRevokeUnavailableWithoutStore(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	deps.Revocations = nil
	deps.Verifier = share.NewVerifier(share.NewCodec(testSecret), nil)
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	status, env := doRequest(t, router, http.MethodPost, "/api/share/revoke", auth, RevokeShareInput{Token: "whatever"}, nil)
	if status != http.StatusNotImplemented || env.Code != errs.ErrRevocationUnavailable {
		t.Errorf("status = %d code = %d", status, env.Code)
	}
}

func TestShareHistory(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	createShare(t, router, auth, CreateShareInput{ExpiryOption: "24h"})
	createShare(t, router, auth, CreateShareInput{ExpiryOption: "never", IsAnonymous: true})

	status, env := doRequest(t, router, http.MethodGet, "/api/share/history", auth, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("history status = %d code = %d", status, env.Code)
	}

	var data struct {
		Links []store.ShareRecord `json:"links"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(data.Links) != 2 {
		t.Fatalf("links = %d, want 2", len(data.Links))
	}
	for _, record := range data.Links {
		if record.Subject != "spez" {
			t.Errorf("record subject = %q", record.Subject)
		}
	}
}

func TestShareHistoryUnavailableWithoutAudit(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	deps.Audit = nil
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	status, env := doRequest(t, router, http.MethodGet, "/api/share/history", auth, nil, nil)
	if status != http.StatusNotImplemented || env.Code != errs.ErrShareHistoryUnavailable {
		t.Errorf("status = %d code = %d", status, env.Code)
	}
}

func TestDashboardRequiresUpstreamSession(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)

	// A session token without an upstream bearer is not enough.
	auth := sessionHeader(t, "spez", "")

	for _, target := range []string{"/api/me/trophies", "/api/subreddits/subscribed", "/api/subreddits/trending"} {
		status, env := doRequest(t, router, http.MethodGet, target, auth, nil, nil)
		if status != http.StatusUnauthorized || env.Code != errs.ErrUnauthenticated {
			t.Errorf("%s: status = %d code = %d", target, status, env.Code)
		}
	}
}

func TestTrendingExcludesSubscribed(t *testing.T) {
	deps, cleanup := newTestDeps(defaultUpstream())
	defer cleanup()
	router := Router(deps)
	auth := sessionHeader(t, "spez", "oauth-token")

	status, env := doRequest(t, router, http.MethodGet, "/api/subreddits/trending", auth, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("trending status = %d code = %d", status, env.Code)
	}

	var data struct {
		Trending []struct {
			Name         string `json:"name"`
			TrendingRank int    `json:"trendingRank"`
		} `json:"trending"`
		Recommended []upstream.Subreddit `json:"recommended"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding trending: %v", err)
	}

	if len(data.Trending) != 2 {
		t.Fatalf("trending = %+v, want the subscribed community filtered out", data.Trending)
	}
	for i, entry := range data.Trending {
		if strings.EqualFold(entry.Name, "golang") {
			t.Error("subscribed community appeared in trending")
		}
		if entry.TrendingRank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, entry.TrendingRank, i+1)
		}
	}
}
