package embedded

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/theQRL/interop/node"
)

const shutdownTimeout = 5 * time.Second

// server is one running node. Every delivery goes through deliver, which
// holds the read lock for the duration of the callback; stop takes the write
// lock, so no callback runs once stop has returned.
type server struct {
	cb       node.Callback
	upgrader websocket.Upgrader
	maxWS    int64

	lock    sync.RWMutex
	stopped bool
	conns   mapset.Set
	wg      sync.WaitGroup

	httpSrv *http.Server
	addr    net.Addr
}

func newServer(cb node.Callback, maxWS int64) *server {
	return &server{
		cb:    cb,
		maxWS: maxWS,
		conns: mapset.NewSet(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// origin policy is left to the cors handler
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.serveWS).Methods(http.MethodGet)
	router.PathPrefix("/").HandlerFunc(s.serveHeaders)
	return router
}

func (s *server) handler(l *Library) (http.Handler, error) {
	router := s.routes()
	if l.rateLimit > 0 {
		v, err := newVisitors(l.maxVisitors, l.rateLimit, l.rateBurst)
		if err != nil {
			return nil, err
		}
		router.Use(v.middleware)
	}

	var h http.Handler = router
	if len(l.jwtSecret) > 0 {
		h = newJWTHandler(l.jwtSecret, l.jwtMaxSkew, h)
	}
	co := cors.New(cors.Options{
		AllowedOrigins: l.corsOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
	})
	return co.Handler(h), nil
}

func (s *server) deliver(data []byte) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.stopped {
		return
	}
	s.cb(data)
}

func (s *server) serveHeaders(w http.ResponseWriter, r *http.Request) {
	s.deliver(rawHeaders(r))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK\n"))
}

func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	headers := rawHeaders(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		logger.Debug("Websocket upgrade failed ", err)
		return
	}
	s.deliver(headers)

	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		_ = conn.Close()
		return
	}
	s.conns.Add(conn)
	s.wg.Add(1)
	s.lock.Unlock()

	go s.readLoop(conn)
}

func (s *server) readLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	defer s.conns.Remove(conn)
	defer conn.Close()

	conn.SetReadLimit(s.maxWS)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Websocket closed ", err)
			}
			return
		}
		s.deliver(msg)
	}
}

func (s *server) stop() {
	s.lock.Lock()
	s.stopped = true
	s.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("HTTP endpoint shutdown ", err)
	}
	// hijacked websocket connections are not tracked by Shutdown
	for _, c := range s.conns.ToSlice() {
		_ = c.(*websocket.Conn).Close()
	}
	s.wg.Wait()
}

// rawHeaders renders the request line and header block as it would appear
// on the wire.
func rawHeaders(r *http.Request) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s %s\r\n", r.Method, r.RequestURI, r.Proto)
	if r.Host != "" {
		fmt.Fprintf(&buf, "Host: %s\r\n", r.Host)
	}
	_ = r.Header.Write(&buf)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
