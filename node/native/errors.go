// Package native binds the asynclib C library through cgo.
//
// The binding is compiled only with cgo enabled and the asynclib build tag:
//
//	CGO_LDFLAGS=-L/path/to/lib go build -tags asynclib ./cmd/interop
//
// Otherwise New reports ErrNativeUnavailable.
package native

import "errors"

var ErrNativeUnavailable = errors.New("native node library not compiled in (build with cgo and -tags asynclib)")
