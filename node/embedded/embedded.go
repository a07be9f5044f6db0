// Package embedded is an in-process node that honours the same start/stop
// contract as the native asynclib binding.
//
// The node listens for HTTP on the requested address and delivers the raw
// header block of every request to the registered callback. Requests to /ws
// are upgraded to websocket; the handshake headers and every message received
// on the connection are delivered as well.
package embedded

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/theQRL/interop/config"
	"github.com/theQRL/interop/log"
	"github.com/theQRL/interop/node"
)

var logger = log.New("embedded")

var errNilCallback = errors.New("nil callback")

// Library hands out handles to embedded nodes.
type Library struct {
	timeouts    config.HTTPTimeouts
	rateLimit   float64
	rateBurst   int
	maxVisitors int
	maxWS       int64
	corsOrigins []string
	jwtSecret   []byte
	jwtMaxSkew  time.Duration

	lock    sync.Mutex
	nextID  uintptr
	servers map[node.Handle]*server
}

var (
	_ node.Library      = (*Library)(nil)
	_ node.AddrReporter = (*Library)(nil)
)

// New creates a Library configured from c. When jwtSecret is non-empty every
// request must carry an HS256 bearer token signed with it.
func New(c *config.Config, jwtSecret []byte) *Library {
	return &Library{
		timeouts:    c.Dev.HTTPTimeouts,
		rateLimit:   c.User.Node.RateLimit,
		rateBurst:   c.User.Node.RateBurst,
		maxVisitors: c.Dev.MaxTrackedVisitors,
		maxWS:       c.Dev.MaxWSMessageSize,
		corsOrigins: c.User.Node.CorsOrigins,
		jwtSecret:   jwtSecret,
		jwtMaxSkew:  c.Dev.JWTMaxSkew,
		servers:     make(map[node.Handle]*server),
	}
}

// StartNode implements node.Library.
func (l *Library) StartNode(address string, cb node.Callback) (node.Handle, error) {
	if cb == nil {
		return 0, errNilCallback
	}
	endpoint, err := node.NormalizeAddress(address)
	if err != nil {
		return 0, err
	}

	s := newServer(cb, l.maxWS)
	h, err := s.handler(l)
	if err != nil {
		return 0, err
	}
	s.httpSrv, s.addr, err = startHTTPEndpoint(endpoint, l.timeouts, h)
	if err != nil {
		return 0, fmt.Errorf("listen on %s: %w", endpoint, err)
	}

	l.lock.Lock()
	l.nextID++
	handle := node.Handle(l.nextID)
	l.servers[handle] = s
	l.lock.Unlock()

	logger.WithField("addr", s.addr.String()).Info("Embedded node listening")
	return handle, nil
}

// StopNode implements node.Library.
func (l *Library) StopNode(h *node.Handle) {
	if h == nil || !h.Valid() {
		logger.Warn("StopNode called with a null handle")
		return
	}

	l.lock.Lock()
	s, ok := l.servers[*h]
	delete(l.servers, *h)
	l.lock.Unlock()

	stale := *h
	*h = 0
	if !ok {
		logger.WithField("handle", uintptr(stale)).Warn("StopNode called with an unknown handle")
		return
	}
	s.stop()
	logger.WithField("addr", s.addr.String()).Info("Embedded node stopped")
}

// Addr returns the address the node behind h is bound to, or nil.
func (l *Library) Addr(h node.Handle) net.Addr {
	l.lock.Lock()
	defer l.lock.Unlock()

	if s, ok := l.servers[h]; ok {
		return s.addr
	}
	return nil
}

// Running returns the number of nodes that have not been stopped.
func (l *Library) Running() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.servers)
}
