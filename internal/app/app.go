package app

import (
	"context"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
)

// Application runs one compare-and-notify cycle through the engine.
type Application struct {
	Engine ports.Reconciler
	Logger ports.Logger
}

func NewApplication(engine ports.Reconciler, logger ports.Logger) *Application {
	return &Application{
		Engine: engine,
		Logger: logger,
	}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting organization policy check...")

	err := a.Engine.Run(ctx)

	if err != nil {
		a.Logger.Errorf(ctx, err, "Organization policy check failed")
		return err
	}

	a.Logger.Infof(ctx, "Organization policy check completed successfully")
	return nil
}
