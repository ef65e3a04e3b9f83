package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// PublishTimeout bounds each trade-event publish.
	PublishTimeout time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		PublishTimeout: 5 * time.Second,
	}
}
