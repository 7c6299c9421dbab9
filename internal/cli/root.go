package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the foldermirror command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foldermirror",
		Short: "Mirror folder pairs by modification time",
		Long: `foldermirror keeps target folders in step with their sources. Each
configured folder pair is scanned, files that are missing or older on the
other side are copied, and copies can be verified by checksum.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
