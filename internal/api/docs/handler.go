package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specPath = "/docs/openapi.yaml"

//go:embed swagger.yaml
var openAPISpec []byte

// RegisterRoutes serves the embedded OpenAPI document and a Swagger UI for it
// under /docs.
func RegisterRoutes(r chi.Router) {
	ui := httpSwagger.Handler(
		httpSwagger.URL(specPath),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(specPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openAPISpec)
	})
	r.Get("/docs/*", ui)
}
