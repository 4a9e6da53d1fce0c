package storage

import "time"

// Recorder receives operation metrics.
type Recorder interface {
	ObserveOperation(op, outcome string, d time.Duration)
	SetHandleState(state string)
	AddBytes(direction string, n int64)
}

const (
	outcomeOK = "ok"

	bytesRead    = "read"
	bytesWritten = "written"
)

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) SetHandleState(string)                          {}
func (nopRecorder) AddBytes(string, int64)                         {}
