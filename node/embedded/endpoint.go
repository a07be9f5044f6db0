package embedded

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/theQRL/interop/config"
)

// startHTTPEndpoint starts serving handler on endpoint.
func startHTTPEndpoint(endpoint string, timeouts config.HTTPTimeouts, handler http.Handler) (*http.Server, net.Addr, error) {
	// start the HTTP listener
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, nil, err
	}
	// make sure timeout values are meaningful
	checkTimeouts(&timeouts)
	httpSrv := &http.Server{
		Handler:      handler,
		ReadTimeout:  timeouts.ReadTimeout,
		WriteTimeout: timeouts.WriteTimeout,
		IdleTimeout:  timeouts.IdleTimeout,
	}
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP endpoint stopped unexpectedly ", err)
		}
	}()
	return httpSrv, listener.Addr(), nil
}

// checkTimeouts ensures that timeout values are meaningful
func checkTimeouts(timeouts *config.HTTPTimeouts) {
	defaults := config.GetDevConfig().HTTPTimeouts
	if timeouts.ReadTimeout < time.Second {
		logger.WithField("provided", timeouts.ReadTimeout).Warn("Sanitizing invalid HTTP read timeout")
		timeouts.ReadTimeout = defaults.ReadTimeout
	}
	if timeouts.WriteTimeout < time.Second {
		logger.WithField("provided", timeouts.WriteTimeout).Warn("Sanitizing invalid HTTP write timeout")
		timeouts.WriteTimeout = defaults.WriteTimeout
	}
	if timeouts.IdleTimeout < time.Second {
		logger.WithField("provided", timeouts.IdleTimeout).Warn("Sanitizing invalid HTTP idle timeout")
		timeouts.IdleTimeout = defaults.IdleTimeout
	}
}
