package s3

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

const StoreTypeS3 = "s3"

type Config struct {
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Key         string `mapstructure:"key" validate:"required"`
	Region      string `mapstructure:"region"`
	StagingPath string `mapstructure:"staging_path" validate:"required"`
}

// Store is the S3 rendition of the baseline store port, for deployments
// that keep the baseline outside Google Cloud. Same staging-file contract
// as the GCS store.
type Store struct {
	client S3ClientInterface
	cfg    Config
	logger ports.Logger
}

type StoreOption func(*Store)

// WithS3Client provides an option to set a custom S3 client.
func WithS3Client(client S3ClientInterface) StoreOption {
	return func(s *Store) {
		if client != nil {
			s.client = client
		}
	}
}

func NewStore(ctx context.Context, cfg Config, logger ports.Logger, opts ...StoreOption) (*Store, error) {
	s := &Store{
		cfg: cfg,
		logger: logger.WithFields(map[string]any{
			"store":  StoreTypeS3,
			"bucket": cfg.Bucket,
			"key":    cfg.Key,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStorage, "failed loading AWS configuration")
		}
		s.client = s3.NewFromConfig(awsCfg)
	}

	return s, nil
}

func (s *Store) Type() string { return StoreTypeS3 }

func (s *Store) Load(ctx context.Context) ([]string, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.cfg.Key),
	})
	if err != nil {
		if isNotFound(err) {
			s.logger.Infof(ctx, "Baseline object does not exist yet")
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("downloading baseline object s3://%s/%s", s.cfg.Bucket, s.cfg.Key))
	}
	defer out.Body.Close()

	staged, err := os.Create(s.cfg.StagingPath)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("creating staging file %s", s.cfg.StagingPath))
	}
	if _, err := io.Copy(staged, out.Body); err != nil {
		_ = staged.Close()
		return nil, false, errors.Wrap(err, errors.CodeStorage, "writing baseline to staging file")
	}
	if err := staged.Close(); err != nil {
		return nil, false, errors.Wrap(err, errors.CodeStorage, "closing staging file")
	}

	names, err := readNames(s.cfg.StagingPath)
	if err != nil {
		return nil, false, err
	}

	s.logger.Debugf(ctx, "Loaded baseline with %d constraints", len(names))
	return names, true, nil
}

func (s *Store) Save(ctx context.Context, names []string) error {
	if err := os.WriteFile(s.cfg.StagingPath, []byte(strings.Join(names, "\n")), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("staging baseline to %s", s.cfg.StagingPath))
	}

	staged, err := os.Open(s.cfg.StagingPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("opening staging file %s", s.cfg.StagingPath))
	}
	defer staged.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.cfg.Key),
		Body:   staged,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("uploading baseline object s3://%s/%s", s.cfg.Bucket, s.cfg.Key))
	}

	s.logger.Infof(ctx, "Baseline uploaded with %d constraints", len(names))
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if goerrors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if goerrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorage, fmt.Sprintf("opening staged baseline %s", path))
	}
	defer f.Close()

	names := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorage, fmt.Sprintf("reading staged baseline %s", path))
	}
	return names, nil
}
