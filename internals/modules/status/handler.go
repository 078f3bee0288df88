package status

import (
	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type Snapshotter interface {
	Snapshot() liveness.State
	Config() liveness.Config
}

type Handler struct {
	monitor Snapshotter
	now     func() time.Time
}

func NewHandler(monitor Snapshotter) *Handler {
	return &Handler{
		monitor: monitor,
		now:     time.Now,
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	st := h.monitor.Snapshot()
	utils.WriteJSON(w, http.StatusOK, reqID, utils.StatusRetrieved, toResponse(st, h.monitor.Config(), h.now()))
}

func toResponse(st liveness.State, cfg liveness.Config, now time.Time) StatusResponse {
	resp := StatusResponse{
		Status:       string(st.Status()),
		LastSeenAt:   utils.EncodeStamp(st.LastSeenAt),
		OnlineSince:  utils.EncodeStamp(st.OnlineSince),
		OfflineSince: utils.EncodeStamp(st.OfflineSince),
		TimeoutSec:   int64(cfg.Timeout / time.Second),
	}

	var since time.Time
	switch st.Status() {
	case liveness.StatusOnline:
		since = st.OnlineSince
	case liveness.StatusOffline:
		since = st.OfflineSince
	}
	if !since.IsZero() {
		d := max(now.Sub(since), 0)
		resp.For = liveness.FormatDuration(d)
		resp.ForSeconds = int64(d / time.Second)
	}

	return resp
}
