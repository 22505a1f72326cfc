package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssosweep/ssosweep/internal/cmdutils"
	"github.com/ssosweep/ssosweep/internal/config"
	"github.com/ssosweep/ssosweep/internal/ssosession"
	"github.com/ssosweep/ssosweep/internal/sweep"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run a command once per matching account",
	Long: `Runs the given command once per matching account with that account's
temporary credentials exported into the child environment, streaming the
command's output straight through. Everything after the command name is
passed to it untouched.

A failing account never stops the sweep, the closing summary lists every
account with its outcome and the exit code is 1 when any of them failed.`,
	Example: `  ssosweep -p org exec aws s3 ls
  ssosweep -p org -i '\bprod\b' -r ReadOnly exec ./audit.sh --full`,
	Args: cobra.MinimumNArgs(1),
	RunE: execRun,
}

func init() {
	// child flags pass through without '--'
	execCmd.Flags().SetInterspersed(false)
	RootCmd.AddCommand(execCmd)
}

func execRun(cmd *cobra.Command, args []string) error {
	matcher, err := newMatcher()
	if err != nil {
		return err
	}
	conf := config.SweepConfig{
		BaseConfig:  baseConfig(),
		IncludeOnly: includeOnly,
		Exclude:     exclude,
		Command:     args,
	}
	sess, _, err := cmdutils.Bootstrap(cmd.Context(), conf.BaseConfig, ssosession.ProfileLoader{}, ssosession.FileTokenStore{})
	if err != nil {
		return err
	}
	return cmdutils.ExecSweep(cmd.Context(), cmd.ErrOrStderr(), sess, matcher, sweep.ExecRunner{}, conf)
}
