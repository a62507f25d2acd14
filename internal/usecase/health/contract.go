package health

import "context"

// Pinger checks availability of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}
