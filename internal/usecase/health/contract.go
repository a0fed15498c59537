package health

import "context"

// StorePinger is the chunk store's connectivity probe (Redis PING).
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker probes an embedding or chat provider without spending tokens.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
