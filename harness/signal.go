package harness

import (
	"io"
)

// WaitForSentinel reads r one byte at a time until sentinel is read. Nothing
// past the sentinel is consumed. End of input counts as the sentinel.
func WaitForSentinel(r io.Reader, sentinel byte) error {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 && b[0] == sentinel {
			return nil
		}
		if err == io.EOF {
			logger.Info("End of input, stopping")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// WaitForStopSignal blocks until the stop sentinel is read from r.
func (h *Harness) WaitForStopSignal(r io.Reader) error {
	return WaitForSentinel(r, h.sentinel)
}
