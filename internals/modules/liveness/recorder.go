package liveness

// Recorder receives monitor events for metrics.
type Recorder interface {
	PingRecorded()
	TransitionFired(kind TransitionKind)
	NotifyFailed()
	StoreFailed(op string)
	StatusChanged(online bool)
}

type nopRecorder struct{}

func (nopRecorder) PingRecorded()                  {}
func (nopRecorder) TransitionFired(TransitionKind) {}
func (nopRecorder) NotifyFailed()                  {}
func (nopRecorder) StoreFailed(string)             {}
func (nopRecorder) StatusChanged(bool)             {}
