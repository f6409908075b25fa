package httpapi

import (
	"net/http"

	"github.com/jsephandrade/canteen-order-service/internal/config"
	"github.com/jsephandrade/canteen-order-service/internal/http/handlers"
	"github.com/jsephandrade/canteen-order-service/internal/middleware"
	"github.com/jsephandrade/canteen-order-service/internal/orders"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(service *orders.Service, logger *zap.Logger, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"X-Request-Id",
				"Cache-Control",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}
		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}
		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{Orders: service, Logger: logger, Config: cfg}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.OrdersList)
		r.Post("/", h.OrderCreate)
		r.Get("/queue", h.OrderQueue)
		r.Get("/history", h.OrderHistory)
		r.Get("/generate-number", h.GenerateOrderNumber)
		r.Get("/{id}", h.OrderDetail)
		r.Patch("/{id}/status", h.OrderStatusUpdate)
		r.Post("/{id}/cancel", h.OrderCancel)
		r.Patch("/{id}/auto-flow", h.OrderAutoFlowUpdate)
		r.Patch("/{id}/items/{itemId}/state", h.OrderItemStateUpdate)
		r.Post("/{id}/payment", h.OrderPayment)
	})

	return r
}
