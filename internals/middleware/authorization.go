package middle

import (
	"lightwatch/internals/security"
	"lightwatch/pkg/apperror"
	"lightwatch/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

func AllowOperator(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := middleware.GetReqID(ctx)
		op, ok := OperatorFromContext(ctx)
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "operator is unauthorised")
			return
		}

		if op.Role != security.RoleOperator {
			utils.WriteError(w, http.StatusForbidden, reqID, apperror.Forbidden, "operator role required")
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
