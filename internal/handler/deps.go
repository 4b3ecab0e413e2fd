package handler

import (
	"karmashare/internal/configs"
	"karmashare/internal/profile"
	"karmashare/internal/share"
	"karmashare/internal/store"
	"karmashare/internal/upstream"
)

// AppDeps bundles everything the handlers need. Revocations and Audit are
// nil when their backing stores are not configured.
type AppDeps struct {
	Config      *configs.AppConfig
	Issuer      *share.Issuer
	Verifier    *share.Verifier
	Resolver    *profile.Resolver
	Upstream    upstream.Client
	Revocations store.Revocations
	Audit       store.AuditLog
}
