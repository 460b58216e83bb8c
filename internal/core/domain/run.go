package domain

// RunOutcome describes how a reconciliation run ended.
type RunOutcome string

const (
	// OutcomeBootstrap means no baseline existed; the current listing was
	// saved as the first baseline and nothing was notified.
	OutcomeBootstrap RunOutcome = "bootstrap"
	// OutcomeNoChange means the current listing matched the baseline.
	OutcomeNoChange RunOutcome = "no-change"
	// OutcomeUpdated means new constraints were detected, notifications were
	// delivered and the baseline was rewritten.
	OutcomeUpdated RunOutcome = "updated"
)

// ChangeRef identifies the commit and pull request produced for a run, used
// to cross-reference the change from other notification channels.
type ChangeRef struct {
	CommitSHA      string
	CommitURL      string
	PullRequestURL string
}

// RunResult summarizes a finished run for reporting.
type RunResult struct {
	Outcome         RunOutcome
	BaselineCount   int
	ConstraintCount int
	NewPolicies     []string
	Change          *ChangeRef
}
