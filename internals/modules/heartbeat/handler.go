package heartbeat

import (
	"context"
	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type PingRecorder interface {
	RecordPing(ctx context.Context, now time.Time) liveness.State
}

type Handler struct {
	monitor PingRecorder
	now     func() time.Time
}

func NewHandler(monitor PingRecorder) *Handler {
	return &Handler{
		monitor: monitor,
		now:     time.Now,
	}
}

// Ping is reached only after the shared secret was verified.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	st := h.monitor.RecordPing(ctx, h.now())

	utils.WriteJSON(w, http.StatusOK, reqID, utils.HeartbeatAccepted, PingResponse{
		LastSeen: utils.EncodeStamp(st.LastSeenAt),
	})
}
