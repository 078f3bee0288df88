package status

import (
	middle "lightwatch/internals/middleware"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(middle.AllowOperator).Get("/", h.GetStatus)

	return r
}

/*
- GET: /api/v1/status -> current liveness status
	req auth : true (operator bearer token)
	body : nil
	resp : StatusResponse
*/
