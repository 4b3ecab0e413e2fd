/*
Package handler provides the HTTP handlers and routing for the share service.

This file covers the authenticated dashboard endpoints, which proxy the
upstream API on behalf of the session owner: trophies, subscribed
communities, and a trending list filtered against the caller's
subscriptions.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"karmashare/internal/pkg/errs"
	"karmashare/internal/pkg/logx"
	"karmashare/internal/pkg/resp"
	"karmashare/internal/session"
	"karmashare/internal/upstream"
)

const (
	subscribedLimit   = 25
	popularFetchLimit = 30
	trendingLimit     = 10
	recommendedLimit  = 5
)

// upstreamError maps upstream client failures onto the error taxonomy.
func upstreamError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return errs.NewError(errs.ErrUpstreamNotFound)
	case errors.Is(err, upstream.ErrRateLimited):
		return errs.NewError(errs.ErrUpstreamRateLimited)
	default:
		logx.Error(err, "Upstream dashboard fetch failed")
		return errs.NewError(errs.ErrUpstreamFailure)
	}
}

// requireUpstreamSession extracts a session that can call the OAuth API.
func requireUpstreamSession(r *http.Request) (*session.Payload, *errs.CustomError) {
	sess := session.FromRequest(r)
	if sess == nil || sess.AccessToken == "" {
		return nil, errs.NewError(errs.ErrUnauthenticated)
	}
	return sess, nil
}

// HandleMyTrophies returns the trophy names of the authenticated account.
func HandleMyTrophies(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := requireUpstreamSession(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		trophies, err := deps.Upstream.MyTrophies(r.Context(), sess.AccessToken)
		if err != nil {
			resp.RespondError(w, r, upstreamError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"trophies": trophies,
		})
	}
}

// HandleSubscribed returns the communities the authenticated account
// subscribes to.
func HandleSubscribed(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := requireUpstreamSession(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		subs, err := deps.Upstream.MySubreddits(r.Context(), sess.AccessToken, subscribedLimit)
		if err != nil {
			resp.RespondError(w, r, upstreamError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"subreddits": subs,
		})
	}
}

// trendingSubreddit is a community entry annotated with its trending rank.
type trendingSubreddit struct {
	upstream.Subreddit
	TrendingRank int `json:"trendingRank"`
}

// HandleTrending splits the upstream popular listing into a trending list
// and a shorter recommendation list, excluding communities the caller
// already subscribes to.
func HandleTrending(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := requireUpstreamSession(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		popular, err := deps.Upstream.PopularSubreddits(r.Context(), sess.AccessToken, popularFetchLimit)
		if err != nil {
			resp.RespondError(w, r, upstreamError(err))
			return
		}

		subscribed := make(map[string]struct{})
		mine, err := deps.Upstream.MySubreddits(r.Context(), sess.AccessToken, 50)
		if err != nil {
			logx.Warn("Could not fetch subscribed subreddits, proceeding without filtering", "error", err)
		} else {
			for _, sub := range mine {
				subscribed[strings.ToLower(sub.Name)] = struct{}{}
			}
		}

		trending := []trendingSubreddit{}
		recommended := []upstream.Subreddit{}

		for _, sub := range popular {
			if _, ok := subscribed[strings.ToLower(sub.Name)]; ok {
				continue
			}

			if len(trending) < trendingLimit {
				trending = append(trending, trendingSubreddit{
					Subreddit:    sub,
					TrendingRank: len(trending) + 1,
				})
				continue
			}

			if len(recommended) < recommendedLimit {
				recommended = append(recommended, sub)
			}

			if len(recommended) >= recommendedLimit {
				break
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"trending":    trending,
			"recommended": recommended,
		})
	}
}
