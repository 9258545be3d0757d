package middleware

import (
	"net/http"

	"github.com/rs/cors"

	inHttp "github.com/Alturino/ordering/internal/http"
)

func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			inHttp.KEY_HEADER_ACCEPT,
			inHttp.KEY_HEADER_AUTHORIZATION,
			inHttp.KEY_HEADER_CONTENT_TYPE,
			inHttp.KEY_HEADER_REQUEST_ID,
		},
		ExposedHeaders:   []string{inHttp.KEY_HEADER_REQUEST_ID},
		AllowCredentials: true,
	}).Handler
}
