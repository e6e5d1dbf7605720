package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/pinbump/internal/apptoken"
	"github.com/simplesurance/pinbump/internal/batch"
	"github.com/simplesurance/pinbump/internal/candidates"
	"github.com/simplesurance/pinbump/internal/cfg"
	"github.com/simplesurance/pinbump/internal/coverage"
	"github.com/simplesurance/pinbump/internal/githubclt"
	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/optin"
	"github.com/simplesurance/pinbump/internal/pullrequest"
	"github.com/simplesurance/pinbump/internal/ratelimit"
)

const appName = "pinbump"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

type arguments struct {
	Verbose     *bool
	ConfigFile  *string
	DryRun      *bool
	ShowVersion *bool
}

var args arguments

const defConfigFile = "/etc/pinbump/config.toml"

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			defConfigFile,
			"path to the pinbump configuration file",
		),
		DryRun: pflag.Bool(
			"dry-run",
			false,
			"simulate all changes on github, overrides the dry_run setting of the configuration file",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\nUpdate a pinned reference in GitHub repositories via pull requests.\n", appName)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	file, err := os.Open(*args.ConfigFile)
	exitOnErr("could not open configuration files", err)
	defer file.Close()

	config, err := cfg.Load(file)
	if err != nil {
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	exitOnErr("could not apply environment variables", config.ApplyEnv(context.Background()))

	if *args.DryRun {
		config.DryRun = true
	}

	exitOnErr(fmt.Sprintf("invalid configuration file: %s", *args.ConfigFile), config.Validate())

	return config
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stderr,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func mustNewCoverageChecker(config *cfg.Config) *coverage.Checker {
	tokens, err := apptoken.New(config.Coverage.GithubAppID, config.Coverage.GithubAppKeyFile)
	exitOnErr("could not initialize github app token manager", err)

	policy, err := config.Coverage.Policy()
	exitOnErr("invalid coverage configuration", err)

	retryBackoff, err := config.Coverage.RetryBackoffDuration()
	exitOnErr("invalid coverage configuration", err)

	requestTimeout, err := config.Coverage.RequestTimeoutDuration()
	exitOnErr("invalid coverage configuration", err)

	return coverage.New(coverage.Config{
		CoverageAPIURL:   config.Coverage.APIURL,
		CoverageAPIToken: config.Coverage.APIToken,
		GithubAPIURL:     config.GithubAPIURL,
		AppTokens:        tokens,
		Retries:          config.Coverage.RetryCount(),
		RetryBackoff:     retryBackoff,
		RequestTimeout:   requestTimeout,
		Policy:           policy,
	})
}

func mustNewGithubClient(config *cfg.Config) *githubclt.Client {
	var opts []githubclt.Option

	if config.GithubAPIURL != "" {
		opts = append(opts, githubclt.WithBaseURL(config.GithubAPIURL))
	}

	if config.GithubGraphQLURL != "" {
		opts = append(opts, githubclt.WithGraphQLURL(config.GithubGraphQLURL))
	}

	clt, err := githubclt.New(config.GithubAPIToken, opts...)
	exitOnErr("could not initialize github client", err)

	return clt
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func printOutcomes(outcomes []batch.Outcome) (failed int) {
	for _, o := range outcomes {
		if o.Reason == "" {
			fmt.Printf("%s: %s\n", o.Repository, o.Status)
		} else {
			fmt.Printf("%s: %s, %s\n", o.Repository, o.Status, o.Reason)
		}

		if o.Err != nil {
			fmt.Println(indent(o.Err.Error(), "    "))
		}

		if o.Status == batch.StatusFailed {
			failed++
		}
	}

	return failed
}

func writeMetrics(path string) {
	if path == "" {
		return
	}

	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		logger.Warn(
			"writing metrics textfile failed",
			logfields.Event("metrics_textfile_write_failed"),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func main() {
	defer panicHandler()

	defer goodbye.Exit(context.Background(), 1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	config := mustParseCfg()

	mustInitLogger(config)

	logger.Info(
		"loaded cfg file",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.String("github_api_url", config.GithubAPIURL),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
		zap.Bool("dry_run", config.DryRun),
		zap.Int("workers", config.Workers),
		zap.Float64("writes_per_second", config.WritesPerSecond),
		zap.String("search.query", config.Search.Query),
		zap.String("search.filter_query", config.Search.FilterQuery),
		zap.String("rewrite.old", config.Rewrite.Old),
		zap.String("rewrite.new", config.Rewrite.New),
		zap.String("pull_request.branch", config.PullRequest.Branch),
		zap.Bool("coverage.check_coverage", config.Coverage.CheckCoverage),
		zap.String("coverage.on_indeterminate", config.Coverage.OnIndeterminate),
		zap.String("coverage.api_url", config.Coverage.APIURL),
		zap.String("coverage.api_token", hide(config.Coverage.APIToken)),
		zap.String("coverage.github_app_id", config.Coverage.GithubAppID),
		zap.String("coverage.github_app_key_file", config.Coverage.GithubAppKeyFile),
	)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}

		cancelFn()
	})

	githubClient := mustNewGithubClient(config)

	var prClient pullrequest.GithubClient = githubClient
	if config.DryRun {
		prClient = pullrequest.NewDryGithubClient(githubClient, logger)
	}

	var filter *candidates.Filter
	if config.Search.FilterQuery != "" {
		var err error

		filter, err = candidates.NewFilter(config.Search.FilterQuery)
		exitOnErr("could not parse search.filter_query", err)
	}

	group, err := candidates.Collect(ctx, githubClient.SearchCode(ctx, config.Search.Query), filter)
	if err != nil {
		logger.Error(
			"collecting candidates failed",
			logfields.Event("candidates_collect_failed"),
			zap.Error(err),
		)

		return
	}

	configPaths := config.Coverage.ConfigPaths
	if len(configPaths) == 0 {
		configPaths = optin.DefaultConfigPaths
	}

	var checker batch.CoverageChecker
	if config.Coverage.CheckCoverage {
		checker = mustNewCoverageChecker(config)
	}

	orchestrator := batch.New(batch.Config{
		CheckCoverage: config.Coverage.CheckCoverage,
		Checker:       checker,
		Probe:         optin.NewProbe(),
		ConfigPaths:   configPaths,
		ContentReader: githubClient,
		Limiter:       ratelimit.New(config.WritesPerSecond, config.WriteBurst),
		Workers:       config.Workers,
	})

	submitter := pullrequest.NewSubmitter(
		prClient,
		&pullrequest.LiteralRewriter{Old: config.Rewrite.Old, New: config.Rewrite.New},
		pullrequest.Config{
			Branch:        config.PullRequest.Branch,
			Title:         config.PullRequest.Title,
			Body:          config.PullRequest.Body,
			CommitMessage: config.PullRequest.CommitMessage,
		},
	)

	outcomes := orchestrator.Run(ctx, group, submitter.Submit)

	failed := printOutcomes(outcomes)

	writeMetrics(config.MetricsTextfile)

	if failed > 0 {
		goodbye.Exit(ctx, 1)
	}

	goodbye.Exit(ctx, 0)
}
