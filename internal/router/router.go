package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"luxe-backoffice/internal/handler"
	"luxe-backoffice/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the resource handlers mounted by the router.
type Handlers struct {
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	Delivery *handler.DeliveryHandler
	Admin    *handler.AdminHandler

	// Media serves locally stored images under MediaPath when set.
	MediaPath string
	Media     http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth *middleware.Authenticator, db Pinger, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> Identify
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(routeSpanName)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", health(db))

	if h.Media != nil {
		prefix := "/" + strings.Trim(h.MediaPath, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, noListing(h.Media)))
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Identify)

		r.Route("/api", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Category.List)
				r.Get("/{id}", h.Category.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Category.Create)
					r.Put("/{id}", h.Category.Update)
					r.Patch("/{id}", h.Category.Update)
					r.Delete("/{id}", h.Category.Delete)
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Product.List)
				r.Get("/featured", h.Product.Featured)
				r.Get("/{id}", h.Product.Get)
				r.Get("/{id}/images", h.Product.Images)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/admin_list", h.Product.AdminList)
					r.Post("/", h.Product.Create)
					r.Put("/{id}", h.Product.Update)
					r.Patch("/{id}", h.Product.Update)
					r.Delete("/{id}", h.Product.Delete)
					r.Post("/{id}/images", h.Product.AddImage)
					r.Delete("/{id}/images/{imageId}", h.Product.DeleteImage)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/customers", func(r chi.Router) {
					r.Get("/", h.Customer.List)
					r.Post("/", h.Customer.Create)
					r.Get("/{id}", h.Customer.Get)
					r.Put("/{id}", h.Customer.Update)
					r.Patch("/{id}", h.Customer.Update)
					r.Delete("/{id}", h.Customer.Delete)
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", h.Order.List)
					r.Post("/", h.Order.Create)
					r.Get("/{id}", h.Order.GetByID)
					r.Put("/{id}", h.Order.Update)
					r.Patch("/{id}", h.Order.Update)
					r.Delete("/{id}", h.Order.Delete)
				})

				r.Route("/deliveries", func(r chi.Router) {
					r.Get("/", h.Delivery.List)
					r.Post("/", h.Delivery.Create)
					r.Get("/{id}", h.Delivery.Get)
					r.Put("/{id}", h.Delivery.Update)
					r.Patch("/{id}", h.Delivery.Update)
					r.Delete("/{id}", h.Delivery.Delete)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/site", h.Admin.Site)
			r.Patch("/products/{id}", h.Admin.EditProduct)
		})
	})

	return otelhttp.NewHandler(r, "luxe-backoffice",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method
		}),
	)
}

// routeSpanName renames the request span after the matched route pattern once
// routing has completed, keeping span names free of ids.
func routeSpanName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				trace.SpanFromContext(r.Context()).SetName(r.Method + " " + pattern)
			}
		}
	})
}

// noListing hides directory indexes of a file server.
func noListing(files http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}
}
