package v1

import "strings"

// Public surface: registration, login, book and book-review reads, liveness.
// Keyed by "METHOD path", wildcard * matches any suffix.
var authenticationAllowlist = map[string]bool{
	"POST /api/auth/register": true,
	"POST /api/auth/login":    true,
	"GET /api/books*":         true,
	"GET /api/reviews/book/*": true,
	"GET /api/health":         true,
}

// isUnauthenticatedAllowed returns whether the route is exempted from
// authentication.
func isUnauthenticatedAllowed(method, path string) bool {
	key := method + " " + path
	for k := range authenticationAllowlist {
		if strings.HasSuffix(k, "*") {
			if strings.HasPrefix(key, strings.TrimSuffix(k, "*")) {
				return true
			}
		}
	}

	return authenticationAllowlist[key]
}
