package middle

import (
	"lightwatch/pkg/apperror"
	"lightwatch/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const HeartbeatTokenHeader = "X-Heartbeat-Token"

type SecretVerifier interface {
	Verify(candidate string) bool
}

// SharedSecret rejects requests whose token (query "token" or the
// X-Heartbeat-Token header) does not match. Rejections never reach the handler.
func SharedSecret(verifier SecretVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeartbeatTokenHeader)
			if token == "" {
				token = r.URL.Query().Get("token")
			}

			if !verifier.Verify(token) {
				reqID := middleware.GetReqID(r.Context())
				utils.WriteError(w, http.StatusForbidden, reqID, apperror.Forbidden, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
