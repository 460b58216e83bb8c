package gcs

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

const StoreTypeGCS = "gcs"

type Config struct {
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Object      string `mapstructure:"object" validate:"required"`
	StagingPath string `mapstructure:"staging_path" validate:"required"`
}

// Store keeps the newline-delimited baseline in a GCS object. Reads and
// writes go through the configured local staging path so a failed upload
// never corrupts the remote baseline and a failed local write never uploads.
type Store struct {
	bucket BucketAPI
	cfg    Config
	logger ports.Logger
}

type StoreOption func(*Store)

// WithBucketAPI provides an option to set a custom bucket client.
func WithBucketAPI(api BucketAPI) StoreOption {
	return func(s *Store) {
		if api != nil {
			s.bucket = api
		}
	}
}

func NewStore(ctx context.Context, cfg Config, logger ports.Logger, opts ...StoreOption) (*Store, error) {
	s := &Store{
		cfg: cfg,
		logger: logger.WithFields(map[string]any{
			"store":  StoreTypeGCS,
			"bucket": cfg.Bucket,
			"object": cfg.Object,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.bucket == nil {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStorage, "failed creating storage client")
		}
		s.bucket = &gcsBucket{handle: client.Bucket(cfg.Bucket)}
	}

	return s, nil
}

func (s *Store) Type() string { return StoreTypeGCS }

func (s *Store) Load(ctx context.Context) ([]string, bool, error) {
	r, err := s.bucket.Download(ctx, s.cfg.Object)
	if err != nil {
		if goerrors.Is(err, storage.ErrObjectNotExist) {
			s.logger.Infof(ctx, "Baseline object does not exist yet")
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("downloading baseline object %s/%s", s.cfg.Bucket, s.cfg.Object))
	}
	defer r.Close()

	staged, err := os.Create(s.cfg.StagingPath)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("creating staging file %s", s.cfg.StagingPath))
	}
	if _, err := io.Copy(staged, r); err != nil {
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
	if err := writeNames(s.cfg.StagingPath, names); err != nil {
		return err
	}

	staged, err := os.Open(s.cfg.StagingPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("opening staging file %s", s.cfg.StagingPath))
	}
	defer staged.Close()

	if err := s.bucket.Upload(ctx, s.cfg.Object, staged); err != nil {
		return errors.Wrap(err, errors.CodeStorage,
			fmt.Sprintf("uploading baseline object %s/%s", s.cfg.Bucket, s.cfg.Object))
	}

	s.logger.Infof(ctx, "Baseline uploaded with %d constraints", len(names))
	return nil
}

// readNames parses one constraint name per line, tolerating CRLF endings and
// a trailing blank line.
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

// writeNames serializes one name per line with no trailing blank line.
func writeNames(path string, names []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(names, "\n")), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeStorage, fmt.Sprintf("staging baseline to %s", path))
	}
	return nil
}
