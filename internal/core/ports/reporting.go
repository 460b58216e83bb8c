package ports

import (
	"context"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
)

//go:generate mockery --name RunReporter --output ./mocks --outpkg mocks --case underscore

// RunReporter renders the outcome of a finished run for the operator.
type RunReporter interface {
	Report(ctx context.Context, result domain.RunResult) error
}
