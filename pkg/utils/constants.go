package utils

const (
	HeartbeatAccepted = "heartbeat accepted"
	StatusRetrieved   = "status retrieved"
)
