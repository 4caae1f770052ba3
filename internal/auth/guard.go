package auth

import (
	"net/http"
	"strings"
)

// Guard redirects page requests by session state: anonymous visitors of the
// app root go to /login, signed-in visitors of /login or /signup go to /.
func (m Middleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := m.Identify(r)
		path := r.URL.Path

		switch {
		case !signedIn && path == "/":
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case signedIn && isAuthPage(path):
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAuthPage(path string) bool {
	return strings.HasPrefix(path, "/login") || strings.HasPrefix(path, "/signup")
}
