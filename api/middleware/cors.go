package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Browser clients allowed to call the API. Idempotency-Key is whitelisted so
// the booking form can send it cross-origin.
var corsOptions = cors.Options{
	AllowedOrigins: []string{
		"http://localhost:3000", // local dev
		"https://app.chairtime.io",
		"https://chairtime.vercel.app",
	},
	AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
	AllowCredentials: true,
	MaxAge:           300,
}

// CORS applies the API's cross-origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(corsOptions).Handler
}
