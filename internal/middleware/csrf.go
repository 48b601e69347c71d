package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFField is the form field carrying the token; pages also expose it in a
// meta tag for script requests
const CSRFField = "csrf_token"

// CSRFHeader carries the token on script requests
const CSRFHeader = "X-CSRF-Token"

// liveHeader marks script requests that expect JSON errors and fragments
const liveHeader = "X-Live"

// CSRF rejects unsafe requests without a valid token. authKey must be 32 bytes.
func CSRF(authKey []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFField),
		csrf.RequestHeader(CSRFHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFToken returns the masked token of the request, empty when unprotected
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}

const csrfMessage = "Your session has expired. Please reload the page and try again."

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(liveHeader) == "1" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: csrfMessage})
		return
	}
	http.Error(w, csrfMessage, http.StatusForbidden)
}
