package text

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

// Reporter prints a colored one-screen summary of a finished run.
type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

type ReporterOption func(*Reporter)

// WithWriter provides an option to redirect the report output.
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		if w != nil {
			r.writer = w
		}
	}
}

func NewReporter(cfg Config, logger ports.Logger, opts ...ReporterOption) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	r := &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, result domain.RunResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	switch result.Outcome {
	case domain.OutcomeBootstrap:
		fmt.Fprintf(r.writer, "%s Baseline created with %d constraints. Exiting.\n",
			green("OK"), result.ConstraintCount)
	case domain.OutcomeNoChange:
		fmt.Fprintf(r.writer, "%s No new Org Policies Detected. (%d constraints)\n",
			green("OK"), result.ConstraintCount)
	case domain.OutcomeUpdated:
		fmt.Fprintf(r.writer, "%s New Org Policies Detected: %d\n",
			yellow("!!"), len(result.NewPolicies))
		for _, policy := range result.NewPolicies {
			fmt.Fprintf(r.writer, "   %s\n", cyan(policy))
		}
		if result.Change != nil {
			fmt.Fprintf(r.writer, "Pull request: %s\n", result.Change.PullRequestURL)
			fmt.Fprintf(r.writer, "Commit: %s\n", result.Change.CommitURL)
		}
		fmt.Fprintf(r.writer, "Baseline updated: %d -> %d constraints\n",
			result.BaselineCount, result.ConstraintCount)
	default:
		fmt.Fprintf(r.writer, "Run finished with unknown outcome %q\n", result.Outcome)
	}
	return nil
}
