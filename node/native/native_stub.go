//go:build !cgo || !asynclib

package native

import "github.com/theQRL/interop/node"

// New always fails in builds without the asynclib binding.
func New() (node.Library, error) {
	return nil, ErrNativeUnavailable
}
