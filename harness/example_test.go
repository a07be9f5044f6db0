package harness_test

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theQRL/interop/harness"
	"github.com/theQRL/interop/node"
)

// echoLibrary is a trivial node library that keeps the callback so that
// notifications can be injected by hand.
type echoLibrary struct {
	notify node.Callback
}

func (e *echoLibrary) StartNode(address string, cb node.Callback) (node.Handle, error) {
	e.notify = cb
	return node.Handle(1), nil
}

func (e *echoLibrary) StopNode(h *node.Handle) { *h = 0 }

func Example() {
	lib := &echoLibrary{}
	h := harness.New(lib, os.Stdout)
	if err := h.Start("127.0.0.1:60000"); err != nil {
		fmt.Println(err)
		return
	}

	lib.notify([]byte("X-Test: 1"))
	for h.Stats().Printed == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := h.WaitForStopSignal(strings.NewReader("q\n")); err != nil {
		fmt.Println(err)
	}
	if err := h.Stop(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// Starting node
	// Node is listening on http://127.0.0.1:60000
	// Type `q` and press enter to stop
	// Received headers! 9
	// X-Test: 1
	//
	// Stopping node
}
