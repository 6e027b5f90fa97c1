package scheduler

import "time"

// Config controls how often the background jobs run.
type Config struct {
	RestockInterval time.Duration
	ExpiryInterval  time.Duration
	// ExpiryWindow is how far ahead the expiry job looks.
	ExpiryWindow time.Duration
	JobTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RestockInterval: time.Hour,
		ExpiryInterval:  time.Hour,
		ExpiryWindow:    48 * time.Hour,
		JobTimeout:      30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RestockInterval <= 0 {
		c.RestockInterval = defaults.RestockInterval
	}
	if c.ExpiryInterval <= 0 {
		c.ExpiryInterval = defaults.ExpiryInterval
	}
	if c.ExpiryWindow <= 0 {
		c.ExpiryWindow = defaults.ExpiryWindow
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
