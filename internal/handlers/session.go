package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/spiritmart/api/internal/platform/requestctx"
)

// SessionHeader carries the opaque per-browser session identifier. The server
// mints one when the client does not send it and echoes it on every response.
const SessionHeader = "X-Session-ID"

const maxSessionIDLength = 128

// SessionMiddleware resolves the session id for the request and stores it in
// the request context.
func SessionMiddleware(mintID func() string) func(http.Handler) http.Handler {
	if mintID == nil {
		mintID = func() string { return uuid.NewString() }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sid == "" || len(sid) > maxSessionIDLength {
				sid = mintID()
			}
			w.Header().Set(SessionHeader, sid)
			next.ServeHTTP(w, r.WithContext(requestctx.WithSessionID(r.Context(), sid)))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if sid := requestctx.SessionID(r.Context()); sid != "" {
		return sid
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}
