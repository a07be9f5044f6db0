package harness

import "errors"

var (
	ErrNodeRunning       = errors.New("node already running")
	ErrNodeStopped       = errors.New("node already stopped")
	ErrNodeNotStarted    = errors.New("node not started")
	ErrStartFailed       = errors.New("node failed to start")
	ErrHandleNotReleased = errors.New("node library did not release the handle")
)
