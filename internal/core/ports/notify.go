package ports

import (
	"context"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
)

//go:generate mockery --name ChangePublisher --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name ChatNotifier --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name SocialNotifier --output ./mocks --outpkg mocks --case underscore

// ChangePublisher records the full current listing in source control and
// returns a reference to the resulting change. Runs once per detection.
type ChangePublisher interface {
	Publish(ctx context.Context, listing domain.ConstraintListing) (domain.ChangeRef, error)
}

// ChatNotifier delivers one message per newly detected constraint to a
// pre-configured channel.
type ChatNotifier interface {
	Notify(ctx context.Context, policy string) error
}

// SocialNotifier posts one short status per newly detected constraint,
// including the change reference obtained from the publisher.
type SocialNotifier interface {
	Post(ctx context.Context, policy string, ref domain.ChangeRef) error
}
