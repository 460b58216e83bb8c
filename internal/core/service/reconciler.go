package service

import (
	"context"
	"slices"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

// ReconcileEngine drives one compare-and-notify cycle: load the baseline,
// list the current constraints, diff, and on a difference publish a pull
// request, notify the chat and social channels, then rewrite the baseline.
// Everything is sequential; any failure aborts the remainder of the run,
// including the final baseline save.
type ReconcileEngine struct {
	source    ports.PolicySource
	store     ports.BaselineStore
	publisher ports.ChangePublisher
	chat      ports.ChatNotifier
	social    ports.SocialNotifier
	reporter  ports.RunReporter
	logger    ports.Logger
}

func NewReconcileEngine(
	source ports.PolicySource,
	store ports.BaselineStore,
	publisher ports.ChangePublisher,
	chat ports.ChatNotifier,
	social ports.SocialNotifier,
	reporter ports.RunReporter,
	logger ports.Logger,
) (*ReconcileEngine, error) {
	if source == nil {
		return nil, errors.New(errors.CodeConfigValidation, "policy source cannot be nil")
	}
	if store == nil {
		return nil, errors.New(errors.CodeConfigValidation, "baseline store cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New(errors.CodeConfigValidation, "change publisher cannot be nil")
	}
	if chat == nil {
		return nil, errors.New(errors.CodeConfigValidation, "chat notifier cannot be nil")
	}
	if social == nil {
		return nil, errors.New(errors.CodeConfigValidation, "social notifier cannot be nil")
	}
	if reporter == nil {
		return nil, errors.New(errors.CodeConfigValidation, "run reporter cannot be nil")
	}

	return &ReconcileEngine{
		source:    source,
		store:     store,
		publisher: publisher,
		chat:      chat,
		social:    social,
		reporter:  reporter,
		logger:    logger,
	}, nil
}

func (e *ReconcileEngine) Run(ctx context.Context) error {
	e.logger.Infof(ctx, "Starting organization policy comparison using %s baseline store", e.store.Type())

	old, found, err := e.store.Load(ctx)
	if err != nil {
		wrappedErr := errors.Wrap(err, errors.CodeStorage, "failed loading policy baseline")
		e.logger.Errorf(ctx, wrappedErr, "error loading baseline")
		return wrappedErr
	}

	listing, err := e.source.List(ctx)
	if err != nil {
		wrappedErr := errors.Wrap(err, errors.CodeUpstreamQuery, "failed listing current constraints")
		e.logger.Errorf(ctx, wrappedErr, "error listing constraints")
		return wrappedErr
	}
	current := listing.Names()
	e.logger.Debugf(ctx, "Listed %d current constraints", len(current))

	if !found {
		// Bootstrap path: no baseline yet, the current listing becomes the
		// first baseline and nothing is notified.
		e.logger.Infof(ctx, "No baseline found, creating first baseline with %d constraints", len(current))
		if err := e.store.Save(ctx, current); err != nil {
			wrappedErr := errors.Wrap(err, errors.CodeStorage, "failed saving first policy baseline")
			e.logger.Errorf(ctx, wrappedErr, "error saving baseline")
			return wrappedErr
		}
		return e.report(ctx, domain.RunResult{
			Outcome:         domain.OutcomeBootstrap,
			ConstraintCount: len(current),
		})
	}

	// The sort exists only to make equality-by-content stable; ordering from
	// either side carries no meaning.
	oldSorted := slices.Clone(old)
	currentSorted := slices.Clone(current)
	slices.Sort(oldSorted)
	slices.Sort(currentSorted)

	if slices.Equal(oldSorted, currentSorted) {
		e.logger.Infof(ctx, "No new organization policies detected")
		return e.report(ctx, domain.RunResult{
			Outcome:         domain.OutcomeNoChange,
			BaselineCount:   len(old),
			ConstraintCount: len(current),
		})
	}

	// Additions only: names the provider removed fall out of the baseline
	// silently and are never reported.
	newPolicies := diffNew(currentSorted, oldSorted)
	e.logger.Infof(ctx, "New organization policies detected: %d", len(newPolicies))

	ref, err := e.publisher.Publish(ctx, listing)
	if err != nil {
		wrappedErr := errors.Wrap(err, errors.CodeUpstreamQuery, "failed publishing policy change")
		e.logger.Errorf(ctx, wrappedErr, "error creating pull request")
		return wrappedErr
	}
	e.logger.Infof(ctx, "Published policy change: %s", ref.PullRequestURL)

	for _, policy := range newPolicies {
		if err := e.chat.Notify(ctx, policy); err != nil {
			wrappedErr := errors.Wrap(err, errors.CodeUpstreamQuery, "failed delivering chat notification")
			e.logger.Errorf(ctx, wrappedErr, "error notifying chat channel for %s", policy)
			return wrappedErr
		}
	}

	for _, policy := range newPolicies {
		if err := e.social.Post(ctx, policy, ref); err != nil {
			wrappedErr := errors.Wrap(err, errors.CodeUpstreamQuery, "failed delivering social post")
			e.logger.Errorf(ctx, wrappedErr, "error posting update for %s", policy)
			return wrappedErr
		}
	}

	if err := e.store.Save(ctx, current); err != nil {
		wrappedErr := errors.Wrap(err, errors.CodeStorage, "failed saving policy baseline")
		e.logger.Errorf(ctx, wrappedErr, "error saving baseline")
		return wrappedErr
	}
	e.logger.Infof(ctx, "Baseline updated with %d constraints", len(current))

	return e.report(ctx, domain.RunResult{
		Outcome:         domain.OutcomeUpdated,
		BaselineCount:   len(old),
		ConstraintCount: len(current),
		NewPolicies:     newPolicies,
		Change:          &ref,
	})
}

func (e *ReconcileEngine) report(ctx context.Context, result domain.RunResult) error {
	if err := e.reporter.Report(ctx, result); err != nil {
		wrappedErr := errors.Wrap(err, errors.CodeInternal, "failed reporting run result")
		e.logger.Errorf(ctx, wrappedErr, "error reporting run result")
		return wrappedErr
	}
	return nil
}

// diffNew returns the names present in current but absent from old. Both
// inputs are expected sorted; the result preserves that order.
func diffNew(current, old []string) []string {
	known := make(map[string]struct{}, len(old))
	for _, name := range old {
		known[name] = struct{}{}
	}
	var added []string
	for _, name := range current {
		if _, ok := known[name]; !ok {
			added = append(added, name)
		}
	}
	return added
}
