package gsm

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

const defaultVersion = "latest"

type Config struct {
	Project string `mapstructure:"project" validate:"required"`
	Version string `mapstructure:"version"`
}

// Accessor resolves named credentials from Secret Manager. Every failure is
// fatal, including FailedPrecondition (disabled or destroyed versions) which
// gets its own code so the run report tells the two apart.
type Accessor struct {
	client  SecretClient
	project string
	version string
	logger  ports.Logger
}

type AccessorOption func(*Accessor)

// WithSecretClient provides an option to set a custom Secret Manager client.
func WithSecretClient(client SecretClient) AccessorOption {
	return func(a *Accessor) {
		if client != nil {
			a.client = client
		}
	}
}

func NewAccessor(ctx context.Context, cfg Config, logger ports.Logger, opts ...AccessorOption) (*Accessor, error) {
	if cfg.Project == "" {
		return nil, errors.New(errors.CodeConfigValidation, "secret project cannot be empty")
	}
	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}

	a := &Accessor{
		project: cfg.Project,
		version: version,
		logger:  logger.WithFields(map[string]any{"component": "secrets"}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSecretAccess, "failed creating secret manager client")
		}
		a.client = client
	}

	return a, nil
}

func (a *Accessor) GetLatest(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.CodeConfigValidation, "secret name cannot be empty")
	}

	resource := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", a.project, name, a.version)
	a.logger.Debugf(ctx, "Accessing secret %s", name)

	resp, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resource,
	})
	if err != nil {
		if status.Code(err) == codes.FailedPrecondition {
			return "", errors.Wrap(err, errors.CodePrecondition,
				fmt.Sprintf("secret version precondition failed for %s", name))
		}
		return "", errors.Wrap(err, errors.CodeSecretAccess,
			fmt.Sprintf("accessing secret %s", name))
	}

	return strings.TrimRight(string(resp.Payload.Data), " \t\r\n"), nil
}
