//go:build cgo && asynclib

package native

/*
#cgo LDFLAGS: -lasynclib
#include <stdint.h>
#include <stdlib.h>

typedef void (*on_header_fn)(void*, const char*, size_t);

void* startNode(const char* url, on_header_fn onHeader, void* user);
void stopNode(void** ctx);

extern void goOnHeader(void* user, char* headers, size_t len);

static void* start_node(const char* url, uintptr_t user) {
	return startNode(url, (on_header_fn)goOnHeader, (void*)user);
}
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/theQRL/interop/log"
	"github.com/theQRL/interop/node"
)

var logger = log.New("native")

// nativeNode keeps everything handed to C alive until stopNode returns.
type nativeNode struct {
	ctx unsafe.Pointer
	url *C.char
	cb  cgo.Handle
}

// Library is the asynclib binding. The library may invoke callbacks on its
// own threads; they are routed back to Go through goOnHeader.
type Library struct {
	lock  sync.Mutex
	nodes map[node.Handle]*nativeNode
}

var _ node.Library = (*Library)(nil)

func New() (node.Library, error) {
	return &Library{nodes: make(map[node.Handle]*nativeNode)}, nil
}

// StartNode implements node.Library.
func (l *Library) StartNode(address string, cb node.Callback) (node.Handle, error) {
	if cb == nil {
		return 0, errors.New("nil callback")
	}
	endpoint, err := node.NormalizeAddress(address)
	if err != nil {
		return 0, err
	}

	n := &nativeNode{
		url: C.CString(endpoint),
		cb:  cgo.NewHandle(cb),
	}
	n.ctx = C.start_node(n.url, C.uintptr_t(n.cb))
	if n.ctx == nil {
		n.release()
		return 0, nil
	}

	h := node.Handle(uintptr(n.ctx))
	l.lock.Lock()
	l.nodes[h] = n
	l.lock.Unlock()
	return h, nil
}

// StopNode implements node.Library.
func (l *Library) StopNode(h *node.Handle) {
	if h == nil || !h.Valid() {
		logger.Warn("StopNode called with a null handle")
		return
	}

	l.lock.Lock()
	n, ok := l.nodes[*h]
	delete(l.nodes, *h)
	l.lock.Unlock()

	*h = 0
	if !ok {
		logger.Warn("StopNode called with an unknown handle")
		return
	}

	ctx := n.ctx
	C.stopNode(&ctx)
	if ctx != nil {
		logger.Warn("asynclib did not clear the node context on stop")
	}
	n.release()
}

func (n *nativeNode) release() {
	n.cb.Delete()
	C.free(unsafe.Pointer(n.url))
	n.ctx = nil
}
