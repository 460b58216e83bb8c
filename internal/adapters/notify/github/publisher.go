package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v66/github"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/oauth2"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const commitMessage = "New Policies Detected"

type Config struct {
	Owner      string `mapstructure:"owner" validate:"required"`
	Name       string `mapstructure:"name" validate:"required"`
	FilePath   string `mapstructure:"file_path" validate:"required"`
	BaseBranch string `mapstructure:"base_branch" validate:"required"`
	HeadBranch string `mapstructure:"head_branch" validate:"required"`
}

// Publisher records the full constraint listing in the tracked repository:
// cut a head branch from the base branch, rewrite the policy file on it and
// open a pull request. The head branch name is fixed; if a prior run left it
// behind, CreateRef fails and so does the run.
type Publisher struct {
	api    RepositoryAPI
	cfg    Config
	now    func() time.Time
	logger ports.Logger
}

type PublisherOption func(*Publisher)

// WithRepositoryAPI provides an option to set a custom GitHub client.
func WithRepositoryAPI(api RepositoryAPI) PublisherOption {
	return func(p *Publisher) {
		if api != nil {
			p.api = api
		}
	}
}

// WithClock provides an option to set the clock used for PR titles.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPublisher(cfg Config, token string, logger ports.Logger, opts ...PublisherOption) (*Publisher, error) {
	p := &Publisher{
		cfg: cfg,
		now: time.Now,
		logger: logger.WithFields(map[string]any{
			"notifier": "github",
			"repo":     fmt.Sprintf("%s/%s", cfg.Owner, cfg.Name),
		}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.api == nil {
		if token == "" {
			return nil, errors.New(errors.CodeConfigValidation, "github token cannot be empty")
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		p.api = &ghAPI{client: gh.NewClient(tc)}
	}

	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, listing domain.ConstraintListing) (domain.ChangeRef, error) {
	content, err := json.MarshalIndent(listing, "", "    ")
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeInternal, "serializing constraint listing")
	}

	base, err := p.api.GetBranch(ctx, p.cfg.Owner, p.cfg.Name, p.cfg.BaseBranch)
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("fetching base branch %s", p.cfg.BaseBranch))
	}

	p.logger.Infof(ctx, "Creating branch %s from %s", p.cfg.HeadBranch, p.cfg.BaseBranch)
	_, err = p.api.CreateRef(ctx, p.cfg.Owner, p.cfg.Name, &gh.Reference{
		Ref:    gh.String("refs/heads/" + p.cfg.HeadBranch),
		Object: &gh.GitObject{SHA: base.GetCommit().SHA},
	})
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("creating branch %s", p.cfg.HeadBranch))
	}

	existing, err := p.api.GetContents(ctx, p.cfg.Owner, p.cfg.Name, p.cfg.FilePath, p.cfg.BaseBranch)
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("fetching tracked policy file %s", p.cfg.FilePath))
	}

	updated, err := p.api.UpdateFile(ctx, p.cfg.Owner, p.cfg.Name, p.cfg.FilePath, &gh.RepositoryContentFileOptions{
		Message: gh.String(commitMessage),
		Content: content,
		SHA:     existing.SHA,
		Branch:  gh.String(p.cfg.HeadBranch),
	})
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("updating tracked policy file %s", p.cfg.FilePath))
	}

	title := fmt.Sprintf("New Policies Detected on %s", p.now().Format("2006-01-02"))
	p.logger.Infof(ctx, "Creating pull request %q", title)
	pr, err := p.api.CreatePullRequest(ctx, p.cfg.Owner, p.cfg.Name, &gh.NewPullRequest{
		Title: gh.String(title),
		Head:  gh.String(p.cfg.HeadBranch),
		Base:  gh.String(p.cfg.BaseBranch),
		Body:  gh.String(title),
	})
	if err != nil {
		return domain.ChangeRef{}, errors.Wrap(err, errors.CodeUpstreamQuery, "creating pull request")
	}

	return domain.ChangeRef{
		CommitSHA:      updated.Commit.GetSHA(),
		CommitURL:      updated.Commit.GetHTMLURL(),
		PullRequestURL: pr.GetHTMLURL(),
	}, nil
}
