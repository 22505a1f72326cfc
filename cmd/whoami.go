package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/ssosweep/ssosweep/internal/cmdutils"
	"github.com/ssosweep/ssosweep/internal/ssosession"
	"github.com/ssosweep/ssosweep/internal/sweep"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Check the session by assuming into the first matching account",
	Long: `Fetches credentials for the first matching account and asks sts who they
belong to. Quick end to end check that the profile, the cached login and
role resolution all line up before a long sweep.`,
	RunE: whoamiRun,
}

func init() {
	RootCmd.AddCommand(whoamiCmd)
}

func whoamiRun(cmd *cobra.Command, args []string) error {
	matcher, err := newMatcher()
	if err != nil {
		return err
	}
	conf := baseConfig()
	ctx := cmd.Context()

	sess, profile, err := cmdutils.Bootstrap(ctx, conf, ssosession.ProfileLoader{}, ssosession.FileTokenStore{})
	if err != nil {
		return err
	}
	selected, err := cmdutils.SelectAccounts(ctx, sess, matcher)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("nothing to check, %w", cmdutils.ErrNoAccounts)
	}

	account := selected[0]
	roleName, err := sweep.ResolveRole(ctx, sess, account, conf.Role)
	if err != nil {
		return err
	}
	creds, err := sess.RoleCredentials(ctx, account.ID, roleName)
	if err != nil {
		return err
	}
	svc, err := newStsClient(ctx, profile.Region, creds)
	if err != nil {
		return err
	}
	return cmdutils.Whoami(ctx, cmd.OutOrStdout(), svc, account)
}

func newStsClient(ctx context.Context, region string, creds *ssosession.Credentials) (*sts.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("aws sdk config: %s, %w", err, ssosession.ErrSsoApi)
	}
	return sts.NewFromConfig(cfg), nil
}
