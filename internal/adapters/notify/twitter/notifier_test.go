package twitter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalesec/org-policy-notifier/internal/adapters/notify/twitter"
	"github.com/scalesec/org-policy-notifier/internal/core/domain"
	"github.com/scalesec/org-policy-notifier/internal/errors"
	"github.com/scalesec/org-policy-notifier/internal/log"
)

func testCreds() twitter.Credentials {
	return twitter.Credentials{
		ConsumerKey:       "ck",
		ConsumerKeySecret: "cks",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
	}
}

func TestNewNotifier_MissingCredentials(t *testing.T) {
	creds := testCreds()
	creds.AccessTokenSecret = ""

	_, err := twitter.NewNotifier(creds, twitter.Config{}, log.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
}

func TestPost_SendsStatusWithSuffixAndCommitURL(t *testing.T) {
	var gotPath, gotStatus, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotStatus = r.PostFormValue("status")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := twitter.NewNotifier(testCreds(), twitter.Config{APIBaseURL: srv.URL}, log.NewNopLogger(),
		twitter.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ref := domain.ChangeRef{CommitURL: "https://github.com/ScaleSec/gcp_org_policy_notifier/commit/abc123"}
	require.NoError(t, n.Post(context.Background(), "constraints/compute.disableSerialPortAccess", ref))

	assert.Equal(t, "/statuses/update.json", gotPath)
	assert.Equal(t,
		"New Organization Policy Detected: compute.disableSerialPortAccess https://github.com/ScaleSec/gcp_org_policy_notifier/commit/abc123",
		gotStatus)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestPost_SignsRequestsWhenNoClientInjected(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := twitter.NewNotifier(testCreds(), twitter.Config{APIBaseURL: srv.URL}, log.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, n.Post(context.Background(), "constraints/a", domain.ChangeRef{}))
	assert.Contains(t, authHeader, "OAuth")
	assert.Contains(t, authHeader, `oauth_consumer_key="ck"`)
}

func TestPost_RejectedStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":187,"message":"Status is a duplicate."}]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	n, err := twitter.NewNotifier(testCreds(), twitter.Config{APIBaseURL: srv.URL}, log.NewNopLogger(),
		twitter.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = n.Post(context.Background(), "constraints/a", domain.ChangeRef{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstreamQuery, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Status is a duplicate")
}
