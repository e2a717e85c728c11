package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	pkgauth "github.com/goustty/storefront/pkg/auth"
	"github.com/goustty/storefront/pkg/config"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/logger"
)

type claimsCtxKey struct{}

const requestIDHeader = "X-Request-Id"

func requestIDMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)
			ctx := log.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := log.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			log.Debug(ctx, "request.start")

			next.ServeHTTP(rec, r.WithContext(ctx))

			ctx = log.WithFields(ctx, map[string]any{
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			log.Info(ctx, "request.complete")
		})
	}
}

func recovererMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("panic: %v", rec))
					log.Error(r.Context(), "request.panic", err)
					writeError(w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*.goustty.com"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// tokenAuth parses "Authorization: Token <jwt>" and attaches the claims to
// the request context. Requests without a token pass through anonymous;
// requests with a bad token are rejected.
func tokenAuth(cfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := strings.CutPrefix(header, "Token ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid authorization header"))
				return
			}
			claims, err := pkgauth.ParseAccessToken(cfg, strings.TrimSpace(raw))
			if err != nil {
				writeError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), claimsCtxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(r *http.Request) *pkgauth.AccessTokenClaims {
	claims, _ := r.Context().Value(claimsCtxKey{}).(*pkgauth.AccessTokenClaims)
	return claims
}

func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r) == nil {
			writeError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication credentials were not provided"))
			return
		}
		next(w, r)
	}
}

func requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !claimsFrom(r).Staff {
			writeError(w, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to perform this action"))
			return
		}
		next(w, r)
	})
}

// rateLimiterStore is the slice of the redis client the auth limiter needs.
type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type authRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int64
	emailLimit int64
}

func loginRateLimitPolicy(cfg config.RateLimitConfig) authRateLimitPolicy {
	return authRateLimitPolicy{
		name:       "login",
		window:     cfg.LoginWindow,
		ipLimit:    int64(cfg.LoginIPLimit),
		emailLimit: int64(cfg.LoginEmailLimit),
	}
}

func registerRateLimitPolicy(cfg config.RateLimitConfig) authRateLimitPolicy {
	return authRateLimitPolicy{
		name:       "register",
		window:     cfg.RegisterWindow,
		ipLimit:    int64(cfg.RegisterIPLimit),
		emailLimit: int64(cfg.RegisterEmailLimit),
	}
}

// authRateLimit applies a per-IP fixed window before the handler runs. The
// per-email window is checked inside the auth handlers once the body has
// been decoded. A nil store disables limiting entirely.
func authRateLimit(store rateLimiterStore, policy authRateLimitPolicy) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if store == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			scope := "ip:" + policy.name + ":" + clientIP(r)
			allowed, _, err := store.FixedWindowAllow(r.Context(), scope, policy.ipLimit, policy.window)
			if err == nil && !allowed {
				writeError(w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
				return
			}
			next(w, r)
		}
	}
}

func emailRateLimited(r *http.Request, store rateLimiterStore, policy authRateLimitPolicy, email string) bool {
	if store == nil || email == "" {
		return false
	}
	scope := "email:" + policy.name + ":" + strings.ToLower(email)
	allowed, _, err := store.FixedWindowAllow(r.Context(), scope, policy.emailLimit, policy.window)
	return err == nil && !allowed
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
