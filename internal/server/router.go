package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"storefront/internal/coupon"
	"storefront/internal/identity"
	"storefront/internal/menu"
	ordercontroller "storefront/internal/order/controller"
	"storefront/internal/notification"
	"storefront/internal/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Orders        *ordercontroller.OrderController
	Coupons       *coupon.Controller
	Menu          *menu.Controller
	Notifications *notification.Controller
	DB            Pinger
}

func NewRouter(h Handlers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", identity.HeaderViewerID},
	}).Handler)
	r.Use(identity.Middleware)

	r.Get("/health", health(h.DB, logger))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/businesses/{businessId}", func(r chi.Router) {
			r.Post("/pricing", h.Orders.ComputePricing)
			r.Post("/orders", h.Orders.SubmitOrder)
			r.Post("/coupons/validate", h.Coupons.HandleValidate)
			r.Post("/menu-items/search", h.Menu.HandleSearchItems)
		})

		r.Post("/menu-items/{menuItemId}/fractional", h.Menu.HandleConfirmFractional)
		r.With(identity.RequireViewer(logger)).Patch("/orders/{orderId}/status", h.Orders.UpdateStatus)

		r.Route("/notifications", func(r chi.Router) {
			r.Use(identity.RequireViewer(logger))
			r.Get("/stream", h.Notifications.Stream)
			r.Get("/", h.Notifications.List)
			r.Delete("/", h.Notifications.ClearAll)
			r.Post("/{orderId}/read", h.Notifications.MarkAsRead)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.WriteJSON(w, logger, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
			return
		}

		response.WriteJSON(w, logger, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
	}
}
