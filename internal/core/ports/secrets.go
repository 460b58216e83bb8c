package ports

import "context"

//go:generate mockery --name SecretAccessor --output ./mocks --outpkg mocks --case underscore

// SecretAccessor resolves a named credential to its current value.
type SecretAccessor interface {
	GetLatest(ctx context.Context, name string) (string, error)
}
