package handler

import (
	"context"
	"net/http"
	"strings"

	"cinecomments/internal/auth"
	"cinecomments/internal/service"
)

const msgInvalidToken = "Failed. Invalid Token"

type ctxKeyPrincipal struct{}

// WithPrincipal attaches the authenticated caller to ctx.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, p)
}

// PrincipalFromContext returns the caller set by JWTAuth. ok is false on
// public routes.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal{}).(auth.Principal)
	return p, ok
}

// JWTAuth validates the bearer token and puts the principal into the context.
func JWTAuth(tokens auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeMessage(w, r, http.StatusUnauthorized, service.MsgAuthRequired)
				return
			}

			p, err := tokens.Validate(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				writeMessage(w, r, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// AdminOnly lets through principals carrying the admin flag.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			if !p.IsAdmin {
				writeMessage(w, r, http.StatusForbidden, service.MsgActionForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
