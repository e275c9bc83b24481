// ABOUTME: Content-Type guard for endpoints that accept a request body
// ABOUTME: Rejects unsupported media types before handlers try to decode them

package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// RequireContentType rejects requests whose Content-Type is not one of the
// given media types with 415. A missing header is accepted and treated as
// the first type by the handler.
func RequireContentType(types ...string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if ct == "" {
				next(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(ct)
			if err == nil {
				for _, t := range types {
					if strings.EqualFold(mediaType, t) {
						next(w, r)
						return
					}
				}
			}
			writeJSONError(w, "Unsupported content type: "+sanitizePath(ct), http.StatusUnsupportedMediaType)
		}
	}
}
