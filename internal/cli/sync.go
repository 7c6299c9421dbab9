package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/foldermirror/pkg/logging"
	"github.com/sdejongh/foldermirror/pkg/output"
	"github.com/sdejongh/foldermirror/pkg/sync"
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror every configured folder pair",
		Long: `Mirror folder pairs: copy files that are missing from the target or
older there than in the source. With --two-way, newer files in the target
are copied back to the source as well. Only modification times decide what
is copied; equal timestamps are never copied.`,
		RunE: runSync,
	}

	addPairFlags(cmd)
	cmd.Flags().StringVarP(&syncFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"10M\", \"1GiB\")")

	// Logging flags
	cmd.Flags().StringVar(&syncFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&syncFlags.LogFormat, "log-format", "json", "log format: text, json")
	cmd.Flags().StringVar(&syncFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}

	pairs, err := selectPairs(cfg)
	if err != nil {
		return err
	}

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}

	formatter, err := output.New(cmd.OutOrStdout(), output.Options{
		Format:   cfg.Output.Format,
		Progress: cfg.Output.Progress,
		Quiet:    cfg.Output.Quiet,
	})
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine := sync.NewEngine(opts, logger)
	summary, runErr := engine.Run(ctx, pairs, formatter)
	if runErr != nil {
		logger.Warn(ctx, "Run cancelled", logging.Fields{
			"run_id": summary.ID,
			"reason": runErr.Error(),
		})
	}

	if err := formatter.Complete(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if code := summary.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
