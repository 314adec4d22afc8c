package api

import "github.com/okian/woundcare/pkg/logger"

// DefaultMaxBodyBytes bounds request bodies; base64 photos are large.
const DefaultMaxBodyBytes int64 = 10 << 20

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
