package middleware

import (
	"net/http"

	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/go-chi/cors"
)

// CORS returns middleware that allows the configured storefront origins.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-DD-Token", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
