// Package optin checks if a repository enables automated dependency updates
// via a configuration file in the repository.
package optin

import (
	"context"
	"errors"
	"fmt"

	"github.com/titanous/json5"
	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/maputils"
)

//go:generate mockgen -destination=mocks/contentreader.go -package=mocks . ContentReader

const loggerName = "optin"

const enabledKey = "enabled"

// ErrFileNotFound is returned by a ContentReader when the file does not exist.
var ErrFileNotFound = errors.New("file not found")

// DefaultConfigPaths are the locations that Renovate reads its
// repository configuration from, in the order of precedence.
var DefaultConfigPaths = []string{
	"renovate.json",
	"renovate.json5",
	".github/renovate.json",
	".github/renovate.json5",
	".gitlab/renovate.json",
	".gitlab/renovate.json5",
	".renovaterc",
	".renovaterc.json",
	".renovaterc.json5",
}

// ContentReader reads files from the default branch of a repository.
type ContentReader interface {
	// FileContent returns the content of the file at path.
	// If the file does not exist an error wrapping ErrFileNotFound is
	// returned.
	FileContent(ctx context.Context, repo ghrepo.Ref, path string) ([]byte, error)
}

// Probe evaluates repository configuration files.
type Probe struct {
	logger *zap.Logger
}

func NewProbe() *Probe {
	return &Probe{logger: zap.L().Named(loggerName)}
}

// IsOptedIn returns true if the first existing file of candidatePaths in
// the repository enables automated updates.
//
// A file without an "enabled" key enables updates, a repository without any
// of the files does not.
// Read and parse errors are logged and result in false.
func (p *Probe) IsOptedIn(ctx context.Context, candidatePaths []string, repo ghrepo.Ref, reader ContentReader) bool {
	logger := p.logger.With(repo.LogFields()...)

	for _, path := range candidatePaths {
		logger := logger.With(logfields.FilePath(path))

		content, err := reader.FileContent(ctx, repo, path)
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				continue
			}

			logger.Warn(
				"reading repository config file failed, assuming updates are not enabled",
				logfields.Event("optin_config_read_failed"),
				zap.Error(err),
			)

			return false
		}

		enabled, err := isEnabled(content)
		if err != nil {
			logger.Info(
				"parsing repository config file failed, assuming updates are not enabled",
				logfields.Event("optin_config_parse_failed"),
				zap.Error(err),
			)

			return false
		}

		logger.Debug(
			"repository config file found",
			logfields.Event("optin_config_found"),
			zap.Bool("optin.enabled", enabled),
		)

		return enabled
	}

	logger.Debug("no repository config file found", logfields.Event("optin_config_not_found"))

	return false
}

func isEnabled(content []byte) (bool, error) {
	var cfg map[string]any

	if err := json5.Unmarshal(content, &cfg); err != nil {
		return false, err
	}

	if cfg == nil {
		return false, errors.New("config file is not an object")
	}

	enabled, found, err := maputils.BoolVal(cfg, enabledKey)
	if err != nil {
		return false, fmt.Errorf("invalid config: %w", err)
	}

	if !found {
		return true, nil
	}

	return enabled, nil
}
