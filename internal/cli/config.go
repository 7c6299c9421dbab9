package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sdejongh/foldermirror/pkg/config"
	"github.com/sdejongh/foldermirror/pkg/models"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify the folder pairs and settings used by foldermirror.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigAddCommand())
	cmd.AddCommand(newConfigRemoveCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if raw {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintf(out, "Folder pairs: %d\n", len(cfg.Pairs))
			for i, p := range cfg.Pairs {
				fmt.Fprintf(out, "  %d. %s\n", i+1, p)
			}
			fmt.Fprintf(out, "Two-way: %v\n", cfg.Sync.TwoWay)
			fmt.Fprintf(out, "Validate: %v\n", cfg.Sync.Validate)
			fmt.Fprintf(out, "Hash: %s\n", cfg.Sync.Hash)
			fmt.Fprintf(out, "Max path length: %d\n", cfg.Sync.MaxPathLength)
			fmt.Fprintf(out, "Exclude: %v\n", cfg.Sync.Exclude)
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "yaml", false, "print the configuration as YAML")

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to access configuration file: %w", err)
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func newConfigAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <source> <target>",
		Short: "Add a folder pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := models.FolderPair{Source: args[0], Target: args[1]}
			return updateConfig(func(cfg *config.Config) error {
				if err := cfg.AddPair(pair); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added pair %d: %s\n", len(cfg.Pairs), pair)
				return nil
			})
		},
	}
}

func newConfigRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove a folder pair by its number in 'config show'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pair number %q", args[0])
			}
			return updateConfig(func(cfg *config.Config) error {
				removed, err := cfg.RemovePair(n - 1)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed pair %d: %s\n", n, removed)
				return nil
			})
		},
	}
}

// updateConfig loads the configuration, applies change and saves it
func updateConfig(change func(*config.Config) error) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := change(cfg); err != nil {
		return err
	}
	return config.SaveToFile(cfg, path)
}
