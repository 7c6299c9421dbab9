package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sdejongh/foldermirror/pkg/compare"
	"github.com/sdejongh/foldermirror/pkg/config"
	"github.com/sdejongh/foldermirror/pkg/logging"
	"github.com/sdejongh/foldermirror/pkg/models"
	"github.com/sdejongh/foldermirror/pkg/sync"
)

// SyncFlags holds flags shared by sync and compare
type SyncFlags struct {
	Source        string
	Target        string
	TwoWay        bool
	Validate      bool
	Hash          string
	MaxPathLength int
	Bandwidth     string
	Exclude       []string
	Output        string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var syncFlags SyncFlags

// addPairFlags registers the flags that decide what gets mirrored
func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&syncFlags.Source, "source", "s", "", "source directory (default: pairs from the config file)")
	cmd.Flags().StringVarP(&syncFlags.Target, "target", "t", "", "target directory (requires --source)")
	cmd.Flags().BoolVar(&syncFlags.TwoWay, "two-way", false, "also copy newer files from target back to source")
	cmd.Flags().BoolVar(&syncFlags.Validate, "validate", false, "verify copied and up-to-date files by checksum")
	cmd.Flags().StringVar(&syncFlags.Hash, "hash", "", "checksum algorithm: md5, sha256")
	cmd.Flags().IntVar(&syncFlags.MaxPathLength, "max-path-length", 0, "skip files whose destination path is at least this long (default 260)")
	cmd.Flags().StringSliceVar(&syncFlags.Exclude, "exclude", []string{}, "gitignore-style patterns to exclude")
	cmd.Flags().StringVarP(&syncFlags.Output, "output", "o", "", "output format: human, json")
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("two-way") {
		cfg.Sync.TwoWay = syncFlags.TwoWay
	}
	if flags.Changed("validate") {
		cfg.Sync.Validate = syncFlags.Validate
	}
	if syncFlags.Hash != "" {
		cfg.Sync.Hash = syncFlags.Hash
	}
	if syncFlags.MaxPathLength > 0 {
		cfg.Sync.MaxPathLength = syncFlags.MaxPathLength
	}
	if len(syncFlags.Exclude) > 0 {
		cfg.Sync.Exclude = syncFlags.Exclude
	}
	if syncFlags.Output != "" {
		cfg.Output.Format = syncFlags.Output
	}

	if flags.Lookup("bandwidth") != nil && syncFlags.Bandwidth != "" {
		limit, err := humanize.ParseBytes(syncFlags.Bandwidth)
		if err != nil {
			return fmt.Errorf("invalid bandwidth limit %q: %w", syncFlags.Bandwidth, err)
		}
		cfg.Performance.BandwidthLimit = int64(limit)
	}

	if flags.Lookup("log-file") != nil {
		if syncFlags.LogFile != "" {
			cfg.Logging.Enabled = true
			cfg.Logging.File = syncFlags.LogFile
		}
		if flags.Changed("log-format") {
			cfg.Logging.Format = syncFlags.LogFormat
		}
		if flags.Changed("log-level") {
			cfg.Logging.Level = syncFlags.LogLevel
		}
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	return cfg.Validate()
}

// selectPairs returns the pair given on the command line, or every
// configured pair
func selectPairs(cfg *config.Config) ([]models.FolderPair, error) {
	switch {
	case syncFlags.Source != "" && syncFlags.Target != "":
		return []models.FolderPair{{Source: syncFlags.Source, Target: syncFlags.Target}}, nil
	case syncFlags.Source != "" || syncFlags.Target != "":
		return nil, fmt.Errorf("--source and --target must be used together")
	case len(cfg.Pairs) == 0:
		return nil, fmt.Errorf("no folder pairs configured (add one with 'foldermirror config add <source> <target>')")
	default:
		return cfg.Pairs, nil
	}
}

// engineOptions maps the configuration onto engine options
func engineOptions(cfg *config.Config) (sync.Options, error) {
	hash, err := compare.ParseAlgorithm(cfg.Sync.Hash)
	if err != nil {
		return sync.Options{}, err
	}

	return sync.Options{
		TwoWay:         cfg.Sync.TwoWay,
		Validate:       cfg.Sync.Validate,
		MaxPathLength:  cfg.Sync.MaxPathLength,
		BlockSize:      cfg.Sync.BlockSize,
		Hash:           hash,
		BufferSize:     cfg.Performance.BufferSize,
		BandwidthLimit: cfg.Performance.BandwidthLimit,
		Exclude:        cfg.Sync.Exclude,
	}, nil
}

// createLogger builds the logger described by the configuration.
// --verbose adds debug output on stderr.
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled && !globalFlags.Verbose {
		return logging.NewNullLogger(), nil
	}

	lc := logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     logging.Format(cfg.Logging.Format),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if cfg.Logging.Enabled {
		lc.File = cfg.Logging.File
	}
	if lc.File == "" || globalFlags.Verbose {
		lc.Console = os.Stderr
	}
	if globalFlags.Verbose {
		lc.Level = logging.DebugLevel
	}

	return logging.New(lc)
}
