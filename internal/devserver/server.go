package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/goustty/storefront/pkg/config"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/logger"
)

// Server is the local stand-in for the production storefront API. It speaks
// the same wire dialect the client packages expect: trailing-slash routes,
// "Token" authorization and "detail" error payloads.
type Server struct {
	cfg     config.DevserverConfig
	db      *gorm.DB
	log     *logger.Logger
	limiter rateLimiterStore
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithRateLimiter enables fixed-window rate limiting on the auth endpoints.
func WithRateLimiter(store rateLimiterStore) Option {
	return func(s *Server) { s.limiter = store }
}

func NewServer(cfg config.DevserverConfig, db *gorm.DB, log *logger.Logger, opts ...Option) (*Server, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "database handle is required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	s := &Server{cfg: cfg, db: db, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Router assembles the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware(s.log))
	r.Use(loggingMiddleware(s.log))
	r.Use(recovererMiddleware(s.log))
	r.Use(tokenAuth(s.cfg.JWT))

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", requireStaff(s.createProduct))
		r.Put("/{id}/", requireStaff(s.updateProduct))
		r.Delete("/{id}/", requireStaff(s.deleteProduct))
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.listCollections)
		r.Post("/", requireStaff(s.createCollection))
		r.Put("/{id}/", requireStaff(s.updateCollection))
		r.Delete("/{id}/", requireStaff(s.deleteCollection))
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.listCategories)
		r.Post("/", requireStaff(s.createCategory))
		r.Put("/{id}/", requireStaff(s.updateCategory))
		r.Delete("/{id}/", requireStaff(s.deleteCategory))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", requireAuth(s.listOrders))
		r.Post("/", s.createOrder)
		r.Post("/track/", s.trackOrder)
		r.Patch("/{id}/", requireStaff(s.patchOrder))
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", s.listSettings)
		r.Post("/", requireStaff(s.updateSettings))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/", authRateLimit(s.limiter, registerRateLimitPolicy(s.cfg.RateLimit))(s.register))
		r.Post("/login/", authRateLimit(s.limiter, loginRateLimitPolicy(s.cfg.RateLimit))(s.login))
		r.Get("/profile/", requireAuth(s.profile))
		r.Put("/profile/address/", requireAuth(s.updateProfileAddress))
		r.Get("/users/", requireStaff(s.listUsers))
	})

	return r
}
