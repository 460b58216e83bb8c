package ports

import (
	"context"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
)

//go:generate mockery --name PolicySource --output ./mocks --outpkg mocks --case underscore

// PolicySource queries the live constraint listing for the configured
// organization. Order of the returned constraints carries no meaning.
type PolicySource interface {
	List(ctx context.Context) (domain.ConstraintListing, error)
}
