package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS allows the browser client at clientURL (comma-separated for several)
// to call the API with cookies.
func CORS(clientURL string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(clientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}
