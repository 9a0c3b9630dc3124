package httpserver

import (
	"net/http"
	"time"
)

// writeTimeout must stay above the router's handler timeout; otherwise the
// server cuts the connection before the middleware can write a 504 body.
const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 35 * time.Second
	idleTimeout       = 120 * time.Second
)

// New builds the API server.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
