package httpx

import (
	"embed"
	"net/http"
)

// staticFS holds the client bootstrap assets referenced by the page shell.
//
//go:embed all:static
var staticFS embed.FS

func registerStaticRoutes(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
}
