package status

type StatusResponse struct {
	Status       string `json:"status"`
	LastSeenAt   string `json:"last_seen_at,omitempty"`
	OnlineSince  string `json:"online_since,omitempty"`
	OfflineSince string `json:"offline_since,omitempty"`

	// For is how long the current status has lasted, e.g. "2 год 5 хв".
	For        string `json:"for,omitempty"`
	ForSeconds int64  `json:"for_seconds,omitempty"`

	TimeoutSec int64 `json:"timeout_sec"`
}
