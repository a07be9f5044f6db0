package harness

import (
	"fmt"
	"io"
	"sync"
)

// console serializes writes from the controlling goroutine and the printer.
type console struct {
	lock sync.Mutex
	w    io.Writer
}

func (c *console) println(line string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, err := io.WriteString(c.w, line+"\n"); err != nil {
		logger.Warn("Console write failed ", err)
	}
}

// notification writes the length line followed by the payload, unmodified.
func (c *console) notification(data []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, err := fmt.Fprintf(c.w, "Received headers! %d\n", len(data)); err != nil {
		return err
	}
	if _, err := c.w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(c.w, "\n\n")
	return err
}
