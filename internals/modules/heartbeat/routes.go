package heartbeat

import (
	middle "lightwatch/internals/middleware"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, verifier middle.SecretVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(middle.SharedSecret(verifier))

	r.Get("/", h.Ping)
	r.Post("/", h.Ping)

	return r
}

/*
- GET|POST: /heartbeat?token=<secret>  -> record a ping
	req auth : shared secret (query "token" or X-Heartbeat-Token header)
	body : nil
	resp : PingResponse
	403 when the secret does not match, state untouched
*/
