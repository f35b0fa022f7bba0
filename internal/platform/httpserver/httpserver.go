package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for this API. Write and idle
// limits are generous because document uploads can carry multi-megabyte
// bodies.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
