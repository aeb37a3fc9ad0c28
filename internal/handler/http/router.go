package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/pkg/health"
	"github.com/kanavphull/stores-rest-api/pkg/middleware"
)

// NewRouter creates a chi router with all routes registered. Every route
// declares its token policy; the gate is the single enforcement point.
func NewRouter(
	authService *service.AuthService,
	storeService *service.StoreService,
	itemService *service.ItemService,
	tagService *service.TagService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("stores"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	gate := middleware.NewTokenGate(authService)
	anyValid := gate.Require(middleware.PolicyAnyValid)
	fresh := gate.Require(middleware.PolicyFresh)
	refreshOnly := gate.Require(middleware.PolicyRefreshOnly)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(authService)
	storeHandler := NewStoreHandler(storeService)
	itemHandler := NewItemHandler(itemService)
	tagHandler := NewTagHandler(tagService)

	// Account and token lifecycle
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(refreshOnly).Post("/refresh", authHandler.Refresh)
		r.With(anyValid).Post("/logout", authHandler.Logout)
	})

	r.Get("/user/{id}", userHandler.Get)
	r.With(fresh).Delete("/user/{id}", userHandler.Delete)

	// Stores
	r.Get("/store", storeHandler.List)
	r.Get("/store/{id}", storeHandler.Get)
	r.With(ContentTypeJSON, anyValid).Post("/store", storeHandler.Create)
	r.With(fresh).Delete("/store/{id}", storeHandler.Delete)

	// Items
	r.Get("/item", itemHandler.List)
	r.Get("/item/{id}", itemHandler.Get)
	r.With(ContentTypeJSON, anyValid).Post("/item", itemHandler.Create)
	r.With(ContentTypeJSON, anyValid).Put("/item/{id}", itemHandler.Upsert)
	r.With(fresh).Delete("/item/{id}", itemHandler.Delete)

	// Tags and item-tag links
	r.Get("/store/{id}/tag", tagHandler.ListForStore)
	r.With(ContentTypeJSON, anyValid).Post("/store/{id}/tag", tagHandler.CreateForStore)
	r.Get("/tag/{id}", tagHandler.Get)
	r.With(fresh).Delete("/tag/{id}", tagHandler.Delete)
	r.With(anyValid).Post("/item/{id}/tag/{tagID}", tagHandler.Link)
	r.With(fresh).Delete("/item/{id}/tag/{tagID}", tagHandler.Unlink)

	return r
}
