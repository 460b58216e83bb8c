package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/scalesec/org-policy-notifier/internal/adapters/baseline/gcs"
	"github.com/scalesec/org-policy-notifier/internal/adapters/baseline/s3"
	ghnotify "github.com/scalesec/org-policy-notifier/internal/adapters/notify/github"
	slacknotify "github.com/scalesec/org-policy-notifier/internal/adapters/notify/slack"
	twitternotify "github.com/scalesec/org-policy-notifier/internal/adapters/notify/twitter"
	"github.com/scalesec/org-policy-notifier/internal/adapters/policy/crm"
	"github.com/scalesec/org-policy-notifier/internal/adapters/secrets/gsm"
	"github.com/scalesec/org-policy-notifier/internal/config"
	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/core/service"
	"github.com/scalesec/org-policy-notifier/internal/errors"
	"github.com/scalesec/org-policy-notifier/internal/log"
	"github.com/scalesec/org-policy-notifier/internal/reporting/text"
)

// BuildApplicationFromViper unmarshals and validates the configuration,
// resolves every credential up front, then wires the adapters into the
// reconcile engine. All credential-resolution failures are fatal here, before
// any network side effect happens.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	cfg.Normalize()

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.StructCtx(ctx, cfg)
	if err != nil {
		var errorDetails strings.Builder
		errorDetails.WriteString("Configuration validation failed:")
		validationErrors := err.(validator.ValidationErrors)
		for _, fe := range validationErrors {
			errorDetails.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, errorDetails.String(), "Please check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, wrappedErr
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	accessor, err := gsm.NewAccessor(ctx, gsm.Config{
		Project: cfg.Secrets.Project,
		Version: cfg.Secrets.Version,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSecretAccess, "failed to initialize secret accessor")
	}

	githubToken, err := accessor.GetLatest(ctx, cfg.Secrets.GitHubToken)
	if err != nil {
		return nil, err
	}
	slackURL, err := accessor.GetLatest(ctx, cfg.Secrets.SlackWebhook)
	if err != nil {
		return nil, err
	}
	creds, err := resolveSocialCredentials(ctx, accessor, cfg.Secrets)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "All credentials resolved")

	registry := service.NewComponentRegistry()

	var store ports.BaselineStore
	switch cfg.Baseline.Store {
	case gcs.StoreTypeGCS:
		if cfg.Baseline.GCS == nil {
			return nil, errors.NewUserFacing(errors.CodeConfigValidation, "baseline.gcs section is required for the gcs store", "Configure baseline.gcs bucket/object/staging_path.")
		}
		store, err = gcs.NewStore(ctx, *cfg.Baseline.GCS, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize GCS baseline store")
		}
	case s3.StoreTypeS3:
		if cfg.Baseline.S3 == nil {
			return nil, errors.NewUserFacing(errors.CodeConfigValidation, "baseline.s3 section is required for the s3 store", "Configure baseline.s3 bucket/key/staging_path.")
		}
		store, err = s3.NewStore(ctx, *cfg.Baseline.S3, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize S3 baseline store")
		}
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, fmt.Sprintf("unsupported baseline store type: %s", cfg.Baseline.Store), "Supported: gcs, s3")
	}
	if err = registry.RegisterBaselineStore(store); err != nil {
		return nil, err
	}
	store, err = registry.GetBaselineStore(cfg.Baseline.Store)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Using %s baseline store", store.Type())

	source, err := crm.NewSource(ctx, cfg.Org, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize policy source")
	}

	publisher, err := ghnotify.NewPublisher(cfg.Repo, githubToken, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize pull request publisher")
	}

	chat, err := slacknotify.NewNotifier(slackURL, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize chat notifier")
	}

	social, err := twitternotify.NewNotifier(creds, cfg.Social, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize social notifier")
	}

	var reporter ports.RunReporter
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		textCfg := cfg.Settings.Reporter.Text
		if textCfg == nil {
			textCfg = config.DefaultConfig().Settings.Reporter.Text
		}
		reporter, err = text.NewReporter(*textCfg, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
		}
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: text")
	}
	if err = registry.RegisterRunReporter(cfg.Settings.ReporterType, reporter); err != nil {
		return nil, err
	}

	engine, err := service.NewReconcileEngine(
		source, store, publisher, chat, social, reporter,
		logger.WithFields(map[string]any{"component": "engine"}),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize reconcile engine")
	}

	logger.Infof(ctx, "Application bootstrap complete")
	return NewApplication(engine, logger), nil
}

func resolveSocialCredentials(ctx context.Context, accessor ports.SecretAccessor, secrets config.SecretsConfig) (twitternotify.Credentials, error) {
	var creds twitternotify.Credentials
	var err error

	if creds.ConsumerKey, err = accessor.GetLatest(ctx, secrets.ConsumerKey); err != nil {
		return twitternotify.Credentials{}, err
	}
	if creds.ConsumerKeySecret, err = accessor.GetLatest(ctx, secrets.ConsumerKeySecret); err != nil {
		return twitternotify.Credentials{}, err
	}
	if creds.AccessToken, err = accessor.GetLatest(ctx, secrets.AccessToken); err != nil {
		return twitternotify.Credentials{}, err
	}
	if creds.AccessTokenSecret, err = accessor.GetLatest(ctx, secrets.AccessTokenSecret); err != nil {
		return twitternotify.Credentials{}, err
	}
	return creds, nil
}
