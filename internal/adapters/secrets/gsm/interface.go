package gsm

import (
	"context"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
)

//go:generate mockery --name SecretClient --output ./mocks --outpkg mocks --case underscore

// SecretClient is the slice of the Secret Manager surface the accessor uses.
type SecretClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}
