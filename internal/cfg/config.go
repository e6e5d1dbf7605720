package cfg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/pinbump/internal/coverage"
)

const (
	DefLogFormat  = "logfmt"
	DefLogTimeKey = "time"
	DefLogLevel   = "info"
	DefBranch     = "pinbump"
	DefWorkers    = 4
)

type Config struct {
	GithubAPIToken   string `toml:"github_api_token" env:"PINBUMP_GITHUB_API_TOKEN,overwrite"`
	GithubAPIURL     string `toml:"github_api_url"`
	GithubGraphQLURL string `toml:"github_graphql_url"`

	LogFormat  string `toml:"log_format"`
	LogTimeKey string `toml:"log_time_key"`
	LogLevel   string `toml:"log_level"`

	DryRun          bool    `toml:"dry_run"`
	Workers         int     `toml:"workers"`
	WritesPerSecond float64 `toml:"writes_per_second"`
	WriteBurst      int     `toml:"write_burst"`
	MetricsTextfile string  `toml:"metrics_textfile"`

	Search      Search      `toml:"search"`
	Rewrite     Rewrite     `toml:"rewrite"`
	PullRequest PullRequest `toml:"pull_request"`
	Coverage    Coverage    `toml:"coverage"`
}

type Search struct {
	// Query is a GitHub code search query.
	Query string `toml:"query"`
	// FilterQuery is a jq query that is evaluated for each search result.
	FilterQuery string `toml:"filter_query"`
}

type Rewrite struct {
	Old string `toml:"old"`
	New string `toml:"new"`
}

type PullRequest struct {
	Branch        string `toml:"branch"`
	Title         string `toml:"title"`
	Body          string `toml:"body"`
	CommitMessage string `toml:"commit_message"`
}

type Coverage struct {
	CheckCoverage   bool   `toml:"check_coverage"`
	OnIndeterminate string `toml:"on_indeterminate"`

	APIURL   string `toml:"api_url"`
	APIToken string `toml:"api_token" env:"PINBUMP_COVERAGE_API_TOKEN,overwrite"`

	GithubAppID      string `toml:"github_app_id" env:"PINBUMP_GITHUB_APP_ID,overwrite"`
	GithubAppKeyFile string `toml:"github_app_key_file" env:"PINBUMP_GITHUB_APP_KEY_FILE,overwrite"`

	// Retries is the number of times a failed check path request is
	// retried. 0 disables retries, unset uses coverage.DefRetries.
	Retries        *int   `toml:"retries"`
	RetryBackoff   string `toml:"retry_backoff"`
	RequestTimeout string `toml:"request_timeout"`

	// ConfigPaths are the repository files that are checked for an
	// opt-in configuration.
	ConfigPaths []string `toml:"config_paths"`
}

// Load reads a TOML configuration and sets defaults for unset settings.
func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	result.setDefaults()

	return &result, nil
}

func (c *Config) setDefaults() {
	if c.LogFormat == "" {
		c.LogFormat = DefLogFormat
	}

	if c.LogTimeKey == "" {
		c.LogTimeKey = DefLogTimeKey
	}

	if c.LogLevel == "" {
		c.LogLevel = DefLogLevel
	}

	if c.Workers == 0 {
		c.Workers = DefWorkers
	}

	if c.PullRequest.Branch == "" {
		c.PullRequest.Branch = DefBranch
	}

	if c.Coverage.Retries == nil {
		retries := coverage.DefRetries
		c.Coverage.Retries = &retries
	}
}

// ApplyEnv overwrites secret settings with the values of their environment
// variables, if they are set.
func (c *Config) ApplyEnv(ctx context.Context) error {
	return c.applyEnv(ctx, envconfig.OsLookuper())
}

func (c *Config) applyEnv(ctx context.Context, lookuper envconfig.Lookuper) error {
	return envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   c,
		Lookuper: lookuper,
	})
}

// Validate returns an error if a setting is missing or invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Search.Query == "" {
		errs = append(errs, errors.New("search.query is empty"))
	}

	if c.Rewrite.Old == "" {
		errs = append(errs, errors.New("rewrite.old is empty"))
	}

	if c.Rewrite.Old == c.Rewrite.New {
		errs = append(errs, errors.New("rewrite.old and rewrite.new are equal"))
	}

	if c.PullRequest.Title == "" {
		errs = append(errs, errors.New("pull_request.title is empty"))
	}

	if c.PullRequest.CommitMessage == "" {
		errs = append(errs, errors.New("pull_request.commit_message is empty"))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers is %d, must be >=1", c.Workers))
	}

	if c.WritesPerSecond < 0 {
		errs = append(errs, fmt.Errorf("writes_per_second is %f, must be >=0", c.WritesPerSecond))
	}

	if c.WriteBurst < 0 {
		errs = append(errs, fmt.Errorf("write_burst is %d, must be >=0", c.WriteBurst))
	}

	switch c.LogFormat {
	case "logfmt", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is unsupported, supported: logfmt, console, json", c.LogFormat))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if err := c.Coverage.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Coverage) validate() error {
	var errs []error

	if _, err := coverage.ParsePolicy(c.OnIndeterminate); err != nil {
		errs = append(errs, fmt.Errorf("coverage.on_indeterminate: %w", err))
	}

	if (c.GithubAppID == "") != (c.GithubAppKeyFile == "") {
		errs = append(errs, errors.New("coverage.github_app_id and coverage.github_app_key_file must be set together"))
	}

	if c.Retries != nil && *c.Retries < 0 {
		errs = append(errs, fmt.Errorf("coverage.retries is %d, must be >=0", *c.Retries))
	}

	if _, err := c.RetryBackoffDuration(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.RequestTimeoutDuration(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RetryCount returns the Retries setting, coverage.DefRetries if it is unset.
func (c *Coverage) RetryCount() uint64 {
	if c.Retries == nil || *c.Retries < 0 {
		return coverage.DefRetries
	}

	return uint64(*c.Retries)
}

// Policy returns the parsed OnIndeterminate setting.
func (c *Coverage) Policy() (coverage.Policy, error) {
	return coverage.ParsePolicy(c.OnIndeterminate)
}

// RetryBackoffDuration returns the parsed RetryBackoff setting.
// If it is unset, 0 is returned.
func (c *Coverage) RetryBackoffDuration() (time.Duration, error) {
	return parseDuration("coverage.retry_backoff", c.RetryBackoff)
}

// RequestTimeoutDuration returns the parsed RequestTimeout setting.
// If it is unset, 0 is returned.
func (c *Coverage) RequestTimeoutDuration() (time.Duration, error) {
	return parseDuration("coverage.request_timeout", c.RequestTimeout)
}

func parseDuration(setting, val string) (time.Duration, error) {
	if val == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", setting, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s is negative: %s", setting, val)
	}

	return d, nil
}
