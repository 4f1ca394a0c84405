package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// RequestIDHeader carries the correlation ID between client, server and logs.
const RequestIDHeader = "X-Request-Id"

// RequestID propagates the incoming correlation ID, generating one when the
// client sent none. The ID is stored in the context and echoed back in the
// response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}
