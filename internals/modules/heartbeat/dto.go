package heartbeat

type PingResponse struct {
	LastSeen string `json:"last_seen"`
}
