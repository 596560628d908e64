package httpserver

import (
	"log/slog"
	"net"
)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithListener serves on an existing listener instead of Addr.
func WithListener(l net.Listener) Option {
	return func(s *Server) { s.listener = l }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}
