package crm

import (
	"context"

	crmv1 "google.golang.org/api/cloudresourcemanager/v1"
)

//go:generate mockery --name ConstraintLister --output ./mocks --outpkg mocks --case underscore

// ConstraintLister is the slice of the Cloud Resource Manager surface the
// source needs: one page of available constraints for a resource.
type ConstraintLister interface {
	ListAvailableOrgPolicyConstraints(ctx context.Context, resource, pageToken string) (*crmv1.ListAvailableOrgPolicyConstraintsResponse, error)
}

type crmLister struct {
	svc *crmv1.Service
}

func (l *crmLister) ListAvailableOrgPolicyConstraints(ctx context.Context, resource, pageToken string) (*crmv1.ListAvailableOrgPolicyConstraintsResponse, error) {
	req := &crmv1.ListAvailableOrgPolicyConstraintsRequest{PageToken: pageToken}
	return l.svc.Organizations.ListAvailableOrgPolicyConstraints(resource, req).Context(ctx).Do()
}
