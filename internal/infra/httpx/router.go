package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires the order routes and wraps the mux with OTel HTTP
// instrumentation so every request gets a server span.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", handler.PlaceOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Get("/orders/{id}/events", handler.ListOrderEvents)
	r.Post("/orders/{id}/ready", handler.MarkOrderReady)
	r.Post("/orders/{id}/cancel", handler.CancelOrder)

	return otelhttp.NewHandler(r, "brewline.http")
}
