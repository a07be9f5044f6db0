// Package node describes the boundary between the harness and a node
// implementation living outside of it.
//
// The contract mirrors the C ABI exported by the asynclib library:
//
//	void* startNode(const char* url, void (*onHeader)(void*, const char*, size_t), void* user);
//	void  stopNode(void** ctx);
//
// The callback receives (user, headers, len) and stopNode takes the address of
// the handle so the library can null the caller's copy. Both implementations
// in this repository follow that convention.
package node

import "net"

// Handle is an opaque reference to a running node. The zero value is the
// null handle returned by a library that could not start.
type Handle uintptr

// Valid reports whether h refers to a node.
func (h Handle) Valid() bool {
	return h != 0
}

// Callback receives one notification. data is only valid for the duration of
// the call; implementations must copy it to keep it. Callbacks may run on any
// goroutine or OS thread owned by the library.
type Callback func(data []byte)

// Library encompasses the start/stop surface of a node implementation.
type Library interface {
	// StartNode asks the library to listen on address and invoke cb for every
	// notification. A zero handle means the library refused to start.
	StartNode(address string, cb Callback) (Handle, error)

	// StopNode releases the node referenced by *h and sets *h to zero. The
	// library must not invoke the callback once StopNode has returned.
	StopNode(h *Handle)
}

// AddrReporter is implemented by libraries that can tell which address a
// node is bound to, e.g. when it was asked to listen on port 0.
type AddrReporter interface {
	Addr(h Handle) net.Addr
}
