package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/foldermirror/pkg/output"
	"github.com/sdejongh/foldermirror/pkg/sync"
)

var (
	planReport string
	planFormat string
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show what sync would do without touching any file",
		Long: `Scan every folder pair and print the decision for each file
(copy to target, copy to source, validate or up to date) without copying.`,
		RunE: runCompare,
	}

	addPairFlags(cmd)
	cmd.Flags().StringVar(&planReport, "plan-report", "", "also write the plan to file")
	cmd.Flags().StringVar(&planFormat, "plan-format", "human", "plan report file format: human, json")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine := sync.NewEngine(opts, logger)

	var reports []*output.PlanReport
	failed := 0
	for _, pair := range pairs {
		decisions, err := engine.Plan(ctx, pair)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: %v\n", pair, err)
			failed++
			continue
		}
		reports = append(reports, output.NewPlanReport(pair, opts.TwoWay, opts.Validate, decisions))
	}

	if err := output.WritePlan(cmd.OutOrStdout(), reports, cfg.Output.Format, globalFlags.Verbose); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	if planReport != "" {
		if err := output.WritePlanFile(planReport, reports, planFormat); err != nil {
			return err
		}
	}

	switch {
	case failed == 0:
		return nil
	case failed == len(pairs):
		return &ExitError{Code: 2}
	default:
		return &ExitError{Code: 1}
	}
}
