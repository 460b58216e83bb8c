package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scalesec/org-policy-notifier/internal/app"
	apperrors "github.com/scalesec/org-policy-notifier/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	eventData string
)

var rootCmd = &cobra.Command{
	Use:   "org-policy-notifier",
	Short: "Detects newly added GCP Organization Policy constraints and fans out notifications.",
	Long: `org-policy-notifier compares the current list of available Organization
Policy constraints against a saved baseline. When new constraints appear it
opens a pull request with the full listing, announces each addition to Slack
and to a social channel, then rewrites the baseline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if bootstrapErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
			if userMsg, suggestion, ok := apperrors.GetUserFacingMessage(bootstrapErr); ok {
				fmt.Fprintf(os.Stderr, "Error Details: %s\n", userMsg)
				if suggestion != "" {
					fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
				}
			}
			return bootstrapErr
		}

		// The trigger payload is decoded and logged before the run; its
		// content is not otherwise interpreted.
		if eventData != "" {
			payload, err := decodeTriggerPayload(eventData)
			if err != nil {
				application.Logger.Errorf(cmd.Context(), err, "Invalid trigger payload")
				return err
			}
			application.Logger.Infof(cmd.Context(), "Trigger payload: %s", payload)
		}

		runErr := application.Run(cmd.Context())

		if runErr != nil {
			userMsg, suggestion, _ := apperrors.GetUserFacingMessage(runErr)
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
			if suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
			}
			return runErr
		}

		return nil
	},
}

// configKeys lists every key the environment can set. AutomaticEnv alone is
// not enough: Unmarshal only sees keys viper knows about, so each one is
// bound explicitly (org.id becomes ORG_NOTIFIER_ORG_ID, and so on).
var configKeys = []string{
	"settings.log_level",
	"settings.log_format",
	"settings.reporter",
	"org.id",
	"baseline.store",
	"baseline.gcs.bucket",
	"baseline.gcs.object",
	"baseline.gcs.staging_path",
	"baseline.s3.bucket",
	"baseline.s3.key",
	"baseline.s3.region",
	"baseline.s3.staging_path",
	"secrets.project",
	"secrets.version",
	"secrets.github_token",
	"secrets.slack_webhook",
	"secrets.consumer_key",
	"secrets.consumer_key_secret",
	"secrets.access_token",
	"secrets.access_token_secret",
	"repo.owner",
	"repo.name",
	"repo.file_path",
	"repo.base_branch",
	"repo.head_branch",
	"social.api_base_url",
	"social.posts_per_second",
}

func bindEnvironment(v *viper.Viper) error {
	v.SetEnvPrefix("ORG_NOTIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError,
				fmt.Sprintf("binding environment variable for %s", key))
		}
	}
	return nil
}

func decodeTriggerPayload(data string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeConfigParseError, "decoding base64 trigger payload")
	}
	return string(decoded), nil
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is config.yaml or .org-policy-notifier.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&eventData, "event-data", "", "Base64-encoded trigger payload, decoded and logged before the run")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initializeConfig(cmd *cobra.Command) error {
	if err := bindEnvironment(viper.GetViper()); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".org-policy-notifier")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using configuration file:", viper.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found, using defaults and environment variables.")
		} else {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}

	return nil
}
