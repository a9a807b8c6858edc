package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	wsHandler *handler.WSHandler,
	allowedOrigin string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue routes (collection endpoints accept both slash forms)
	mux.HandleFunc("POST /products", productHandler.Create)
	mux.HandleFunc("POST /products/{$}", productHandler.Create)
	mux.HandleFunc("GET /products", productHandler.GetAll)
	mux.HandleFunc("GET /products/{$}", productHandler.GetAll)
	mux.HandleFunc("GET /products/{id}", productHandler.GetByID)
	mux.HandleFunc("PUT /products/{id}", productHandler.Update)
	mux.HandleFunc("DELETE /products/{id}", productHandler.Delete)

	// Order routes
	mux.HandleFunc("POST /orders", orderHandler.Create)
	mux.HandleFunc("POST /orders/{$}", orderHandler.Create)
	mux.HandleFunc("GET /orders", orderHandler.GetAll)
	mux.HandleFunc("GET /orders/{$}", orderHandler.GetAll)
	mux.HandleFunc("GET /orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("PUT /orders/{id}/status", orderHandler.UpdateStatus)

	// Real-time order status channel
	mux.HandleFunc("GET /ws/orders", wsHandler.AllOrderUpdates)
	mux.HandleFunc("GET /ws/orders/{id}", wsHandler.OrderUpdates)

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(allowedOrigin)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
