//go:build cgo && asynclib

package native

/*
#include <stddef.h>
*/
import "C"

import (
	"math"
	"runtime/cgo"
	"unsafe"

	"github.com/theQRL/interop/misc"
	"github.com/theQRL/interop/node"
)

//export goOnHeader
func goOnHeader(user unsafe.Pointer, headers *C.char, n C.size_t) {
	defer misc.RecoverPanic(logger, "asynclib callback")

	cb, ok := cgo.Handle(uintptr(user)).Value().(node.Callback)
	if !ok {
		logger.Error("asynclib callback invoked with foreign user data")
		return
	}
	if uint64(n) > math.MaxInt32 {
		logger.WithField("len", uint64(n)).Error("asynclib notification too large, dropped")
		return
	}
	// GoBytes copies; the C buffer is not referenced after return
	cb(C.GoBytes(unsafe.Pointer(headers), C.int(n)))
}
