// Package harness drives one node through start, wait and stop, and prints
// every notification the node delivers in between.
//
// Notifications arrive on goroutines or threads owned by the node library.
// The callback only copies the payload onto a bounded queue; a single printer
// goroutine writes them to the console. When the queue is full the
// notification is dropped and counted rather than blocking the library.
package harness

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/theQRL/interop/config"
	"github.com/theQRL/interop/errmsg"
	"github.com/theQRL/interop/log"
	"github.com/theQRL/interop/misc"
	"github.com/theQRL/interop/node"
)

var logger = log.New("harness")

// Recorder persists notifications after they are printed.
type Recorder interface {
	Record(data []byte) error
}

type Harness struct {
	// 64-bit atomics first for alignment on 32-bit platforms
	received uint64
	printed  uint64
	dropped  uint64
	bytes    uint64

	lib      node.Library
	console  *console
	sentinel byte
	recorder Recorder

	startStopLock sync.Mutex // Start/Stop are serialized

	lock      sync.RWMutex
	state     State
	accepting bool
	handle    node.Handle
	address   string

	queue chan []byte
	done  chan struct{}
}

type Option func(*Harness)

// WithRecorder records every printed notification to r.
func WithRecorder(r Recorder) Option {
	return func(h *Harness) {
		h.recorder = r
	}
}

// WithQueueSize bounds the number of notifications waiting to be printed.
func WithQueueSize(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.queue = make(chan []byte, n)
		}
	}
}

// WithSentinel changes the byte that ends WaitForStopSignal.
func WithSentinel(b byte) Option {
	return func(h *Harness) {
		h.sentinel = b
	}
}

// New creates an idle harness writing its console output to out.
func New(lib node.Library, out io.Writer, opts ...Option) *Harness {
	dev := config.GetDevConfig()
	h := &Harness{
		lib:      lib,
		console:  &console{w: out},
		sentinel: dev.StopSentinel,
		queue:    make(chan []byte, dev.NotificationQueueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start asks the library to run a node on address. The harness can be
// started once; a failed start leaves it stopped.
func (h *Harness) Start(address string) error {
	h.startStopLock.Lock()
	defer h.startStopLock.Unlock()

	h.lock.Lock()
	switch h.state {
	case StateStarted, StateStopping:
		h.lock.Unlock()
		return ErrNodeRunning
	case StateStopped:
		h.lock.Unlock()
		return ErrNodeStopped
	}
	// the library may deliver before StartNode returns
	h.accepting = true
	h.lock.Unlock()

	go h.print()

	h.console.println("Starting node")
	handle, err := h.lib.StartNode(address, h.onNotify)
	if err != nil || !handle.Valid() {
		if handle.Valid() {
			h.lib.StopNode(&handle)
		}
		h.shutdown()
		if err != nil {
			err = fmt.Errorf(errmsg.NodeStartFailed, ErrStartFailed, address, err)
		} else {
			err = fmt.Errorf(errmsg.NodeStartNullHandle, ErrStartFailed, address)
		}
		logger.Error(err)
		return err
	}

	bound := address
	if r, ok := h.lib.(node.AddrReporter); ok {
		if a := r.Addr(handle); a != nil {
			bound = a.String()
		}
	}

	h.lock.Lock()
	h.state = StateStarted
	h.handle = handle
	h.address = bound
	h.lock.Unlock()

	h.console.println(fmt.Sprintf("Node is listening on http://%s", bound))
	h.console.println(fmt.Sprintf("Type `%c` and press enter to stop", h.sentinel))
	return nil
}

// Stop releases the node. It must be called once, after a successful Start.
func (h *Harness) Stop() error {
	h.startStopLock.Lock()
	defer h.startStopLock.Unlock()

	h.lock.Lock()
	switch h.state {
	case StateIdle:
		h.lock.Unlock()
		return ErrNodeNotStarted
	case StateStopping, StateStopped:
		h.lock.Unlock()
		return ErrNodeStopped
	}
	h.state = StateStopping
	h.accepting = false
	handle := h.handle
	h.handle = 0
	h.lock.Unlock()

	h.console.println("Stopping node")
	h.lib.StopNode(&handle)

	h.shutdown()
	if handle.Valid() {
		err := fmt.Errorf(errmsg.NodeHandleNotReleased, ErrHandleNotReleased, uintptr(handle))
		logger.Error(err)
		return err
	}
	return nil
}

// shutdown drains the printer and marks the harness stopped. Callers must
// have cleared accepting first so that no callback sends on the queue.
func (h *Harness) shutdown() {
	h.lock.Lock()
	h.accepting = false
	h.lock.Unlock()

	close(h.queue)
	<-h.done

	h.lock.Lock()
	h.state = StateStopped
	h.lock.Unlock()
}

// onNotify is registered with the library. It never blocks and never lets a
// panic escape into the caller's frame.
func (h *Harness) onNotify(data []byte) {
	defer misc.RecoverPanic(logger, "notification callback")

	h.lock.RLock()
	defer h.lock.RUnlock()

	if !h.accepting {
		atomic.AddUint64(&h.dropped, 1)
		logger.Debug("Notification received while node is not running, dropped")
		return
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case h.queue <- buf:
		atomic.AddUint64(&h.received, 1)
		atomic.AddUint64(&h.bytes, uint64(len(buf)))
	default:
		atomic.AddUint64(&h.dropped, 1)
		logger.WithField("len", len(buf)).Warn("Notification queue full, dropped")
	}
}

func (h *Harness) print() {
	defer close(h.done)
	for data := range h.queue {
		h.printOne(data)
	}
}

func (h *Harness) printOne(data []byte) {
	defer misc.RecoverPanic(logger, "notification printer")

	if err := h.console.notification(data); err != nil {
		logger.Warn("Failed to print notification ", err)
	}
	atomic.AddUint64(&h.printed, 1)

	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(data); err != nil {
		logger.Warn("Failed to record notification ", err)
	}
}

func (h *Harness) State() State {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.state
}

// Address returns the address the node is bound to after a successful Start.
// It is the address passed to Start unless the library reports another one.
func (h *Harness) Address() string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.address
}

func (h *Harness) Stats() Stats {
	return Stats{
		Received: atomic.LoadUint64(&h.received),
		Printed:  atomic.LoadUint64(&h.printed),
		Dropped:  atomic.LoadUint64(&h.dropped),
		Bytes:    atomic.LoadUint64(&h.bytes),
	}
}
