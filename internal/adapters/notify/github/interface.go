package github

import (
	"context"

	gh "github.com/google/go-github/v66/github"
)

//go:generate mockery --name RepositoryAPI --output ./mocks --outpkg mocks --case underscore

// RepositoryAPI is the slice of the GitHub surface the publisher needs:
// read a branch, cut a ref, read and update one file, open a pull request.
type RepositoryAPI interface {
	GetBranch(ctx context.Context, owner, repo, branch string) (*gh.Branch, error)
	CreateRef(ctx context.Context, owner, repo string, ref *gh.Reference) (*gh.Reference, error)
	GetContents(ctx context.Context, owner, repo, path, ref string) (*gh.RepositoryContent, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *gh.RepositoryContentFileOptions) (*gh.RepositoryContentResponse, error)
	CreatePullRequest(ctx context.Context, owner, repo string, pr *gh.NewPullRequest) (*gh.PullRequest, error)
}

type ghAPI struct {
	client *gh.Client
}

func (a *ghAPI) GetBranch(ctx context.Context, owner, repo, branch string) (*gh.Branch, error) {
	b, _, err := a.client.Repositories.GetBranch(ctx, owner, repo, branch, 0)
	return b, err
}

func (a *ghAPI) CreateRef(ctx context.Context, owner, repo string, ref *gh.Reference) (*gh.Reference, error) {
	created, _, err := a.client.Git.CreateRef(ctx, owner, repo, ref)
	return created, err
}

func (a *ghAPI) GetContents(ctx context.Context, owner, repo, path, ref string) (*gh.RepositoryContent, error) {
	content, _, _, err := a.client.Repositories.GetContents(ctx, owner, repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref})
	return content, err
}

func (a *ghAPI) UpdateFile(ctx context.Context, owner, repo, path string, opts *gh.RepositoryContentFileOptions) (*gh.RepositoryContentResponse, error) {
	resp, _, err := a.client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	return resp, err
}

func (a *ghAPI) CreatePullRequest(ctx context.Context, owner, repo string, pr *gh.NewPullRequest) (*gh.PullRequest, error) {
	created, _, err := a.client.PullRequests.Create(ctx, owner, repo, pr)
	return created, err
}
