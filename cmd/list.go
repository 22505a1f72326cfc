package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssosweep/ssosweep/internal/cmdutils"
	"github.com/ssosweep/ssosweep/internal/ssosession"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List matching accounts and their assumable roles as json",
	Long: `Enumerates the accounts visible to the session, applies the filters and
prints each account with its assumable role names as json on stdout.
Dry run companion to exec, nothing is assumed and no command is run.`,
	RunE: listRun,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func listRun(cmd *cobra.Command, args []string) error {
	matcher, err := newMatcher()
	if err != nil {
		return err
	}
	sess, _, err := cmdutils.Bootstrap(cmd.Context(), baseConfig(), ssosession.ProfileLoader{}, ssosession.FileTokenStore{})
	if err != nil {
		return err
	}
	return cmdutils.ListAccounts(cmd.Context(), cmd.OutOrStdout(), sess, matcher)
}
