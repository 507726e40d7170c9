package main

import (
	"github.com/spf13/cobra"

	syncpkg "github.com/takescoop/tfe-varset-sync/internal/sync"
)

type rootFlags struct {
	configPath string
	orgs       string
	dryRun     bool
	logLevel   string
	logFile    string
	reportPath string
	maxWorkers int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "varset-sync",
		Short:         "Reconcile a global priority variable set across every TFE organization",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flags.orgs, "orgs", "", "Comma-separated org names or path to a file with one org per line")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would change without making changes")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "execution.log", "Log file path (empty disables file logging)")
	cmd.PersistentFlags().StringVar(&flags.reportPath, "report", "", "CSV report path (default varset_report_<timestamp>.csv)")
	cmd.PersistentFlags().IntVar(&flags.maxWorkers, "max-workers", syncpkg.DefaultWorkers, "Number of organizations processed concurrently")

	cmd.AddCommand(newCreateCmd(flags))
	cmd.AddCommand(newUpdateCmd(flags))
	cmd.AddCommand(newDeleteCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newCreateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the varset and add the configured variables in each organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(flags, syncpkg.ModeCreate, false)
		},
	}

	return cmd
}

func newUpdateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Synchronize the varset variables with the configuration in each organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(flags, syncpkg.ModeUpdate, false)
		},
	}

	return cmd
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the varset from each organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(flags, syncpkg.ModeDelete, autoApprove)
		},
	}

	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the interactive delete confirmation")

	return cmd
}
