package hookcache

// Config holds the configuration for a Service instance.
type Config struct {
	// RateLimit is the maximum executions per second per webhook,
	// enforced before each send. 0 means unlimited — the platform's own
	// limits then apply unmediated.
	RateLimit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RateLimit: 0,
	}
}
