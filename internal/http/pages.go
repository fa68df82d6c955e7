package httpx

import (
	"io"
	"net/http"

	"github.com/fitnova/fitnova-ui-api/internal/guard"
)

// appShell is the minimal document the browser boots from; the client
// application takes over rendering and talks to the /api endpoints.
const appShell = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>FitNova</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div id="app"></div>
<script type="module" src="/static/app.js"></script>
</body>
</html>
`

// shellHandler serves the application shell.
func shellHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, appShell); err != nil {
		return
	}
}

// protectedPages are the browser destinations gated by the guard's route
// table. Each is registered behind the access requirement the table assigns
// to its path, so the server enforces exactly what the client router renders.
var protectedPages = []string{
	"/dashboard",
	"/classes",
	"/profile",
	"/members",
	"/memberships",
	"/admin/",
}

// publicPages are browser destinations served without a session.
var publicPages = []string{
	"/{$}",
	"/login",
	"/register",
	"/unauthorized",
	"/plans",
}

func registerPageRoutes(mux *http.ServeMux, sessions SessionResolver) {
	for _, path := range publicPages {
		mux.Handle("GET "+path, http.HandlerFunc(shellHandler))
	}
	for _, path := range protectedPages {
		lookup := path
		if lookup == "/admin/" {
			lookup = "/admin"
		}
		req, _ := guard.RequirementForPath(lookup)
		mux.Handle("GET "+path, RequireAccess(sessions, req)(http.HandlerFunc(shellHandler)))
	}
}
