package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	portsmocks "github.com/scalesec/org-policy-notifier/internal/core/ports/mocks"
	"github.com/scalesec/org-policy-notifier/internal/core/service"
	"github.com/scalesec/org-policy-notifier/internal/errors"
	"github.com/scalesec/org-policy-notifier/internal/log"
)

func listingOf(names ...string) domain.ConstraintListing {
	constraints := make([]domain.Constraint, 0, len(names))
	for _, name := range names {
		constraints = append(constraints, domain.Constraint{Name: name})
	}
	return domain.ConstraintListing{Constraints: constraints}
}

type engineMocks struct {
	source    *portsmocks.PolicySource
	store     *portsmocks.BaselineStore
	publisher *portsmocks.ChangePublisher
	chat      *portsmocks.ChatNotifier
	social    *portsmocks.SocialNotifier
	reporter  *portsmocks.RunReporter
}

func newEngine(t *testing.T) (*service.ReconcileEngine, engineMocks) {
	t.Helper()
	m := engineMocks{
		source:    portsmocks.NewPolicySource(t),
		store:     portsmocks.NewBaselineStore(t),
		publisher: portsmocks.NewChangePublisher(t),
		chat:      portsmocks.NewChatNotifier(t),
		social:    portsmocks.NewSocialNotifier(t),
		reporter:  portsmocks.NewRunReporter(t),
	}
	m.store.On("Type").Maybe().Return("gcs")

	engine, err := service.NewReconcileEngine(
		m.source, m.store, m.publisher, m.chat, m.social, m.reporter, log.NewNopLogger(),
	)
	require.NoError(t, err)
	return engine, m
}

func TestNewReconcileEngine_NilDependencies(t *testing.T) {
	_, m := newEngine(t)

	_, err := service.NewReconcileEngine(nil, m.store, m.publisher, m.chat, m.social, m.reporter, log.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))

	_, err = service.NewReconcileEngine(m.source, m.store, m.publisher, m.chat, nil, m.reporter, log.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
}

func TestRun_NoChange_InputOrderIrrelevant(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	// Baseline and listing hold the same set in different orders.
	m.store.On("Load", mock.Anything).Return([]string{"constraints/b", "constraints/a"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listingOf("constraints/a", "constraints/b"), nil).Once()
	m.reporter.On("Report", mock.Anything, domain.RunResult{
		Outcome:         domain.OutcomeNoChange,
		BaselineCount:   2,
		ConstraintCount: 2,
	}).Return(nil).Once()

	err := engine.Run(ctx)
	require.NoError(t, err)

	m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	m.chat.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	m.social.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_Bootstrap_SavesWithoutNotifying(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	listing := listingOf("constraints/a", "constraints/b")
	m.store.On("Load", mock.Anything).Return(nil, false, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.store.On("Save", mock.Anything, []string{"constraints/a", "constraints/b"}).Return(nil).Once()
	m.reporter.On("Report", mock.Anything, domain.RunResult{
		Outcome:         domain.OutcomeBootstrap,
		ConstraintCount: 2,
	}).Return(nil).Once()

	err := engine.Run(ctx)
	require.NoError(t, err)

	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	m.chat.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	m.social.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_PureAddition_EndToEnd(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	listing := listingOf("constraints/a", "constraints/b", "constraints/c")
	ref := domain.ChangeRef{
		CommitSHA:      "abc123",
		CommitURL:      "https://github.com/ScaleSec/gcp_org_policy_notifier/commit/abc123",
		PullRequestURL: "https://github.com/ScaleSec/gcp_org_policy_notifier/pull/7",
	}

	var order []string
	m.store.On("Load", mock.Anything).Return([]string{"constraints/b", "constraints/a"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.publisher.On("Publish", mock.Anything, listing).
		Run(func(args mock.Arguments) { order = append(order, "publish") }).
		Return(ref, nil).Once()
	m.chat.On("Notify", mock.Anything, "constraints/c").
		Run(func(args mock.Arguments) { order = append(order, "chat") }).
		Return(nil).Once()
	m.social.On("Post", mock.Anything, "constraints/c", ref).
		Run(func(args mock.Arguments) { order = append(order, "social") }).
		Return(nil).Once()
	m.store.On("Save", mock.Anything, []string{"constraints/a", "constraints/b", "constraints/c"}).
		Run(func(args mock.Arguments) { order = append(order, "save") }).
		Return(nil).Once()
	m.reporter.On("Report", mock.Anything, domain.RunResult{
		Outcome:         domain.OutcomeUpdated,
		BaselineCount:   2,
		ConstraintCount: 3,
		NewPolicies:     []string{"constraints/c"},
		Change:          &ref,
	}).Return(nil).Once()

	err := engine.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"publish", "chat", "social", "save"}, order)
}

func TestRun_RemovalOnly_NoNotificationsButBaselineRewritten(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	// A removed constraint changes the listing but yields no new policies:
	// the publisher still records the full listing and the baseline shrinks,
	// yet nothing is announced.
	listing := listingOf("constraints/a")
	ref := domain.ChangeRef{CommitSHA: "def456"}

	m.store.On("Load", mock.Anything).Return([]string{"constraints/a", "constraints/b"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.publisher.On("Publish", mock.Anything, listing).Return(ref, nil).Once()
	m.store.On("Save", mock.Anything, []string{"constraints/a"}).Return(nil).Once()
	m.reporter.On("Report", mock.Anything, domain.RunResult{
		Outcome:         domain.OutcomeUpdated,
		BaselineCount:   2,
		ConstraintCount: 1,
		NewPolicies:     nil,
		Change:          &ref,
	}).Return(nil).Once()

	err := engine.Run(ctx)
	require.NoError(t, err)

	m.chat.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	m.social.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_MultipleAdditions_OnePerChannel(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	listing := listingOf("constraints/c", "constraints/a", "constraints/d", "constraints/b")
	ref := domain.ChangeRef{CommitSHA: "fed789", CommitURL: "https://example.com/commit/fed789"}

	m.store.On("Load", mock.Anything).Return([]string{"constraints/a", "constraints/b"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.publisher.On("Publish", mock.Anything, listing).Return(ref, nil).Once()
	m.chat.On("Notify", mock.Anything, "constraints/c").Return(nil).Once()
	m.chat.On("Notify", mock.Anything, "constraints/d").Return(nil).Once()
	m.social.On("Post", mock.Anything, "constraints/c", ref).Return(nil).Once()
	m.social.On("Post", mock.Anything, "constraints/d", ref).Return(nil).Once()
	m.store.On("Save", mock.Anything, []string{"constraints/c", "constraints/a", "constraints/d", "constraints/b"}).Return(nil).Once()
	m.reporter.On("Report", mock.Anything, mock.MatchedBy(func(r domain.RunResult) bool {
		return r.Outcome == domain.OutcomeUpdated && len(r.NewPolicies) == 2
	})).Return(nil).Once()

	err := engine.Run(ctx)
	require.NoError(t, err)
}

func TestRun_ChatFailureAbortsBeforeSave(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	listing := listingOf("constraints/a", "constraints/c")
	m.store.On("Load", mock.Anything).Return([]string{"constraints/a"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.publisher.On("Publish", mock.Anything, listing).Return(domain.ChangeRef{}, nil).Once()
	m.chat.On("Notify", mock.Anything, "constraints/c").
		Return(errors.New(errors.CodeUpstreamQuery, "webhook rejected")).Once()

	err := engine.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstreamQuery, errors.GetCode(err))

	// The baseline stays stale: the same policy will be re-detected and
	// re-announced on the next run.
	m.social.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.reporter.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
}

func TestRun_PublisherFailureAbortsBeforeChat(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	listing := listingOf("constraints/a", "constraints/c")
	m.store.On("Load", mock.Anything).Return([]string{"constraints/a"}, true, nil).Once()
	m.source.On("List", mock.Anything).Return(listing, nil).Once()
	m.publisher.On("Publish", mock.Anything, listing).
		Return(domain.ChangeRef{}, errors.New(errors.CodeUpstreamQuery, "branch already exists")).Once()

	err := engine.Run(ctx)
	require.Error(t, err)

	m.chat.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRun_LoadErrorIsFatal(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	m.store.On("Load", mock.Anything).
		Return(nil, false, errors.New(errors.CodeStorage, "permission denied")).Once()

	err := engine.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.CodeStorage, errors.GetCode(err))

	m.source.AssertNotCalled(t, "List", mock.Anything)
}

func TestRun_ListErrorIsFatal(t *testing.T) {
	engine, m := newEngine(t)
	ctx := context.Background()

	m.store.On("Load", mock.Anything).Return([]string{"constraints/a"}, true, nil).Once()
	m.source.On("List", mock.Anything).
		Return(domain.ConstraintListing{}, errors.New(errors.CodeUpstreamQuery, "listing call failed")).Once()

	err := engine.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstreamQuery, errors.GetCode(err))

	m.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
