package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "evbus/internal/httpapi/apidocs"
)

// mountSwagger serves the swagger UI and the registered document under
// /swagger/.
func mountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
