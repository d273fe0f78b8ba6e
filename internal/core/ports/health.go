package ports

import "context"

// DependencyChecker is a named backing service the API needs to serve traffic.
type DependencyChecker interface {
	Name() string
	Ping(ctx context.Context) error
}
