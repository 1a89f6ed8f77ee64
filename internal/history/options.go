package history

import "log/slog"

// Option configures a History.
type Option func(*History)

// WithMaxEntries bounds the number of recorded commands. When the bound is
// exceeded the oldest commands are dropped. Zero or a negative value means
// unlimited, which is the default.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		if n < 0 {
			n = 0
		}
		h.maxEntries = n
	}
}

// WithLogger sets the logger used for debug-level transition records.
func WithLogger(logger *slog.Logger) Option {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}
