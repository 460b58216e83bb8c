package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

const (
	defaultAPIBaseURL      = "https://api.twitter.com/1.1"
	defaultPostsPerSecond  = 1
	statusUpdateEndpoint   = "/statuses/update.json"
	maxErrorBodySnippetLen = 256
)

type Config struct {
	APIBaseURL     string `mapstructure:"api_base_url"`
	PostsPerSecond int    `mapstructure:"posts_per_second"`
}

// Credentials are the four OAuth1 secrets the posting API requires.
type Credentials struct {
	ConsumerKey       string
	ConsumerKeySecret string
	AccessToken       string
	AccessTokenSecret string
}

func (c Credentials) validate() error {
	if c.ConsumerKey == "" || c.ConsumerKeySecret == "" || c.AccessToken == "" || c.AccessTokenSecret == "" {
		return errors.New(errors.CodeConfigValidation, "all four social API credentials are required")
	}
	return nil
}

// Notifier posts one status update per new constraint, pacing posts so a
// large batch does not trip the API's rate limits. Requests are signed by
// the OAuth1 transport.
type Notifier struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     ports.Logger
}

type NotifierOption func(*Notifier)

// WithHTTPClient provides an option to set a custom HTTP client.
func WithHTTPClient(client *http.Client) NotifierOption {
	return func(n *Notifier) {
		if client != nil {
			n.httpClient = client
		}
	}
}

func NewNotifier(creds Credentials, cfg Config, logger ports.Logger, opts ...NotifierOption) (*Notifier, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	pps := cfg.PostsPerSecond
	if pps <= 0 {
		pps = defaultPostsPerSecond
	}

	n := &Notifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(pps), 1),
		logger:  logger.WithFields(map[string]any{"notifier": "twitter"}),
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.httpClient == nil {
		oauthCfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerKeySecret)
		token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
		n.httpClient = oauthCfg.Client(oauth1.NoContext, token)
	}

	return n, nil
}

func (n *Notifier) Post(ctx context.Context, policy string, ref domain.ChangeRef) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.CodeUpstreamQuery, "waiting for post rate limiter")
	}

	status := fmt.Sprintf("New Organization Policy Detected: %s %s", domain.NameSuffix(policy), ref.CommitURL)
	form := url.Values{"status": {status}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.baseURL+statusUpdateEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "building status update request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	n.logger.Infof(ctx, "Posting status update for %s", policy)
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("posting status update for %s", policy))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySnippetLen))
		return errors.New(errors.CodeUpstreamQuery,
			fmt.Sprintf("status update for %s rejected: %s: %s", policy, resp.Status, strings.TrimSpace(string(snippet))))
	}
	return nil
}
