package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssosweep/ssosweep/internal/cmdutils"
	"github.com/ssosweep/ssosweep/internal/ssosession"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Print temporary credentials per matching account as json",
	Long: `Resolves a role and fetches temporary credentials for every matching
account, printing them as json on stdout for piping into other tooling.
The credentials are short lived and nothing is written to disk.`,
	RunE: credsRun,
}

func init() {
	RootCmd.AddCommand(credsCmd)
}

func credsRun(cmd *cobra.Command, args []string) error {
	matcher, err := newMatcher()
	if err != nil {
		return err
	}
	conf := baseConfig()
	sess, _, err := cmdutils.Bootstrap(cmd.Context(), conf, ssosession.ProfileLoader{}, ssosession.FileTokenStore{})
	if err != nil {
		return err
	}
	return cmdutils.FetchCredentials(cmd.Context(), cmd.OutOrStdout(), sess, matcher, conf.Role)
}
