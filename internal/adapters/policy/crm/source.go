package crm

import (
	"context"
	"fmt"

	crmv1 "google.golang.org/api/cloudresourcemanager/v1"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

const SourceTypeCRM = "cloudresourcemanager"

type Config struct {
	OrgID string `mapstructure:"id" validate:"required"`
}

// Source lists the available Organization Policy constraints for one
// organization through the Cloud Resource Manager v1 API.
type Source struct {
	lister ConstraintLister
	orgID  string
	logger ports.Logger
}

type SourceOption func(*Source)

// WithConstraintLister provides an option to set a custom API client.
func WithConstraintLister(lister ConstraintLister) SourceOption {
	return func(s *Source) {
		if lister != nil {
			s.lister = lister
		}
	}
}

func NewSource(ctx context.Context, cfg Config, logger ports.Logger, opts ...SourceOption) (*Source, error) {
	if cfg.OrgID == "" {
		return nil, errors.New(errors.CodeConfigValidation, "organization id cannot be empty")
	}

	s := &Source{
		orgID: cfg.OrgID,
		logger: logger.WithFields(map[string]any{
			"source": SourceTypeCRM,
			"org_id": cfg.OrgID,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.lister == nil {
		svc, err := crmv1.NewService(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUpstreamQuery, "failed creating cloudresourcemanager service")
		}
		s.lister = &crmLister{svc: svc}
	}

	return s, nil
}

func (s *Source) Type() string { return SourceTypeCRM }

func (s *Source) List(ctx context.Context) (domain.ConstraintListing, error) {
	resource := fmt.Sprintf("organizations/%s", s.orgID)
	listing := domain.ConstraintListing{Constraints: []domain.Constraint{}}

	pageToken := ""
	for {
		if ctx.Err() != nil {
			return domain.ConstraintListing{}, ctx.Err()
		}

		resp, err := s.lister.ListAvailableOrgPolicyConstraints(ctx, resource, pageToken)
		if err != nil {
			return domain.ConstraintListing{}, errors.Wrap(err, errors.CodeUpstreamQuery,
				fmt.Sprintf("listing available constraints for %s", resource))
		}

		for _, c := range resp.Constraints {
			listing.Constraints = append(listing.Constraints, mapConstraint(c))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	s.logger.Debugf(ctx, "Listed %d available constraints", len(listing.Constraints))
	return listing, nil
}

func mapConstraint(c *crmv1.Constraint) domain.Constraint {
	mapped := domain.Constraint{
		Name:              c.Name,
		DisplayName:       c.DisplayName,
		Description:       c.Description,
		ConstraintDefault: c.ConstraintDefault,
		Version:           c.Version,
	}
	if c.ListConstraint != nil {
		mapped.ListConstraint = &domain.ListConstraint{
			SuggestedValue: c.ListConstraint.SuggestedValue,
			SupportsUnder:  c.ListConstraint.SupportsUnder,
		}
	}
	if c.BooleanConstraint != nil {
		mapped.BooleanConstraint = &domain.BooleanConstraint{}
	}
	return mapped
}
