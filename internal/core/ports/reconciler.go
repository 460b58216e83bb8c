package ports

import "context"

//go:generate mockery --name Reconciler --output ./mocks --outpkg mocks --case underscore

// Reconciler runs one compare-and-notify cycle.
type Reconciler interface {
	Run(ctx context.Context) error
}
