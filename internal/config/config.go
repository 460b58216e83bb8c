package config

import (
	"github.com/scalesec/org-policy-notifier/internal/adapters/baseline/gcs"
	"github.com/scalesec/org-policy-notifier/internal/adapters/baseline/s3"
	"github.com/scalesec/org-policy-notifier/internal/adapters/notify/github"
	"github.com/scalesec/org-policy-notifier/internal/adapters/notify/twitter"
	"github.com/scalesec/org-policy-notifier/internal/adapters/policy/crm"
	"github.com/scalesec/org-policy-notifier/internal/log"
	"github.com/scalesec/org-policy-notifier/internal/reporting/text"
)

// Config is the whole configuration surface, built once at startup and
// passed down explicitly.
type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	Org      crm.Config     `mapstructure:"org" validate:"required"`
	Baseline BaselineConfig `mapstructure:"baseline" validate:"required"`
	Secrets  SecretsConfig  `mapstructure:"secrets" validate:"required"`
	Repo     github.Config  `mapstructure:"repo" validate:"required"`
	Social   twitter.Config `mapstructure:"social"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `mapstructure:"log_level"`
	LogFormat    log.Format      `mapstructure:"log_format"`
	ReporterType string          `mapstructure:"reporter"`
	Reporter     ReporterConfigs `mapstructure:"reporter_config"`
}

type ReporterConfigs struct {
	Text *text.Config `mapstructure:"text,omitempty"`
}

type BaselineConfig struct {
	// Store selects which adapter holds the baseline blob.
	Store string      `mapstructure:"store" validate:"required,oneof=gcs s3"`
	GCS   *gcs.Config `mapstructure:"gcs,omitempty"`
	S3    *s3.Config  `mapstructure:"s3,omitempty"`
}

// SecretsConfig names the credentials resolved through the secret store.
// Values are secret names, never secret values.
type SecretsConfig struct {
	Project           string `mapstructure:"project" validate:"required"`
	Version           string `mapstructure:"version"`
	GitHubToken       string `mapstructure:"github_token" validate:"required"`
	SlackWebhook      string `mapstructure:"slack_webhook" validate:"required"`
	ConsumerKey       string `mapstructure:"consumer_key" validate:"required"`
	ConsumerKeySecret string `mapstructure:"consumer_key_secret" validate:"required"`
	AccessToken       string `mapstructure:"access_token" validate:"required"`
	AccessTokenSecret string `mapstructure:"access_token_secret" validate:"required"`
}

// Normalize drops the sub-config of the baseline store that is not selected
// so validation only applies to the active one. DefaultConfig pre-populates
// the GCS section; a deployment selecting s3 must not have to fill it in.
func (c *Config) Normalize() {
	switch c.Baseline.Store {
	case s3.StoreTypeS3:
		c.Baseline.GCS = nil
	default:
		c.Baseline.S3 = nil
	}
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Baseline: BaselineConfig{
			Store: gcs.StoreTypeGCS,
			GCS: &gcs.Config{
				Object:      "org_policies.txt",
				StagingPath: "/tmp/org_policies.txt",
			},
		},
		Secrets: SecretsConfig{
			Version: "latest",
		},
		Repo: github.Config{
			Owner:      "ScaleSec",
			Name:       "gcp_org_policy_notifier",
			FilePath:   "policies/org_policy.json",
			BaseBranch: "main",
			HeadBranch: "new_policies",
		},
		Social: twitter.Config{
			PostsPerSecond: 1,
		},
	}
}
