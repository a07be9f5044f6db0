package misc

import (
	"fmt"

	"github.com/go-stack/stack"
	"github.com/sirupsen/logrus"
)

// RecoverPanic must be deferred directly. It swallows a panic and logs it
// together with the stack of the panicking goroutine.
func RecoverPanic(entry *logrus.Entry, where string) {
	r := recover()
	if r == nil {
		return
	}
	entry.WithFields(logrus.Fields{
		"panic": fmt.Sprint(r),
		"stack": fmt.Sprintf("%+v", stack.Trace().TrimRuntime()),
	}).Error("Recovered panic in ", where)
}
