package ports

import "context"

//go:generate mockery --name BaselineStore --output ./mocks --outpkg mocks --case underscore

// BaselineStore persists the newline-delimited set of known constraint names
// in a durable blob location.
type BaselineStore interface {
	Type() string

	// Load reads the persisted baseline. found is false when no baseline
	// blob exists yet; that is not an error, the caller owns the bootstrap
	// save.
	Load(ctx context.Context) (names []string, found bool, err error)

	// Save stages the given names to a local file and then overwrites the
	// destination blob unconditionally (last-writer-wins). A failed local
	// write never triggers an upload; a failed upload leaves the remote
	// baseline untouched.
	Save(ctx context.Context, names []string) error
}
