package ingest

import (
	"log/slog"
)

// Limits bounds how much work a single file may cause through nested archives.
type Limits struct {
	// MaxDepth is the deepest archive nesting allowed; a top-level .zip is depth 1.
	MaxDepth int
	// MaxTotalBytes caps the decompressed bytes read from all archive entries of one file.
	MaxTotalBytes int64
	// MaxEntries caps the number of archive entries visited for one file.
	MaxEntries int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:      8,
		MaxTotalBytes: 256 << 20,
		MaxEntries:    10000,
	}
}

// Pipeline turns uploaded files into records.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	limits  Limits
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLimits overrides the archive limits. Non-positive fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(p *Pipeline) {
		if l.MaxDepth > 0 {
			p.limits.MaxDepth = l.MaxDepth
		}
		if l.MaxTotalBytes > 0 {
			p.limits.MaxTotalBytes = l.MaxTotalBytes
		}
		if l.MaxEntries > 0 {
			p.limits.MaxEntries = l.MaxEntries
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records ingestion outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a pipeline with default limits.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		limits: DefaultLimits(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Limits returns the limits in effect.
func (p *Pipeline) Limits() Limits {
	return p.limits
}
