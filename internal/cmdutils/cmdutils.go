// cmdutils
//
// Shared flows behind the subcommands. Everything aws facing is taken as
// a narrow interface so the flows run against fakes in tests, the cmd
// layer wires the real clients.
package cmdutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/ssosweep/ssosweep/internal/accountfilter"
	"github.com/ssosweep/ssosweep/internal/config"
	"github.com/ssosweep/ssosweep/internal/ssosession"
	"github.com/ssosweep/ssosweep/internal/sweep"
	"github.com/ssosweep/ssosweep/internal/util"
)

var (
	ErrMissingProfile   = errors.New("missing profile")
	ErrNoAccounts       = errors.New("no accounts matched")
	ErrUnableToValidate = errors.New("unable to validate credentials")
)

// SweepApi is everything the subcommand flows need from an sso session.
type SweepApi interface {
	Accounts(ctx context.Context) ([]ssosession.Account, error)
	sweep.RoleLister
	sweep.CredentialProvider
}

// CallerIdentityApi is the sts subset whoami needs.
type CallerIdentityApi interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Bootstrap resolves the profile, loads its cached token and builds a
// session against the profile's sso region. Fails before any account is
// touched, so every error out of here is a pre-flight error.
func Bootstrap(ctx context.Context, conf config.BaseConfig, loader ssosession.ProfileLoader, store ssosession.TokenStore) (*ssosession.Session, *ssosession.Profile, error) {
	if conf.Profile == "" {
		return nil, nil, fmt.Errorf("--profile is required, %w", ErrMissingProfile)
	}
	profile, err := loader.Load(ctx, conf.Profile)
	if err != nil {
		return nil, nil, err
	}
	token, err := CachedToken(profile, store)
	if err != nil {
		return nil, nil, err
	}
	util.Traceln("profile %s: sso session %q in %s", profile.Name, profile.CacheKey(), profile.Region)

	svc, err := newSsoClient(ctx, profile.Region)
	if err != nil {
		return nil, nil, err
	}
	return ssosession.New(svc, token.AccessToken, conf.ApiTimeout), profile, nil
}

// CachedToken loads the profile's token and rejects an expired one before
// any api call gets to fail on it, in both cases pointing at the external
// login command that fixes it.
func CachedToken(profile *ssosession.Profile, store ssosession.TokenStore) (*ssosession.Token, error) {
	token, err := store.Token(profile.CacheKey())
	if err != nil {
		return nil, fmt.Errorf("%w, try logging in with 'aws sso login --profile %s'", err, profile.Name)
	}
	if token.Expired(time.Now()) {
		return nil, fmt.Errorf("sso token for profile %q expired at %s, try logging in again with 'aws sso login --profile %s', %w",
			profile.Name, token.ExpiresAt.Format(time.RFC3339), profile.Name, ssosession.ErrSsoLogin)
	}
	return token, nil
}

// the sso account and credential calls authenticate with the bearer token
// in the request itself, so the client signs nothing
func newSsoClient(ctx context.Context, region string) (*sso.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("aws sdk config: %s, %w", err, ssosession.ErrSsoApi)
	}
	return sso.NewFromConfig(cfg), nil
}

// SelectAccounts lists every visible account and applies the matcher,
// preserving the api's ordering.
func SelectAccounts(ctx context.Context, svc SweepApi, matcher *accountfilter.Matcher) ([]ssosession.Account, error) {
	accounts, err := svc.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	selected := matcher.Apply(accounts)
	util.Traceln("matched %d of %d accounts", len(selected), len(accounts))
	return selected, nil
}

// ExecSweep runs the configured command across every selected account and
// writes the closing summary to w.
func ExecSweep(ctx context.Context, w io.Writer, svc SweepApi, matcher *accountfilter.Matcher, cmdRunner sweep.CommandRunner, conf config.SweepConfig) error {
	selected, err := SelectAccounts(ctx, svc, matcher)
	if err != nil {
		return err
	}
	runner := &sweep.Runner{
		Roles:        svc,
		Creds:        svc,
		Cmd:          cmdRunner,
		RoleOverride: conf.BaseConfig.Role,
	}
	result := runner.Sweep(ctx, selected, conf.Command)
	result.WriteSummary(w)
	switch {
	case result.FailedCount() > 0:
		return fmt.Errorf("%d of %d accounts failed, %w", result.FailedCount(), len(result.Outcomes), sweep.ErrSweepFailed)
	case result.Skipped > 0:
		return fmt.Errorf("interrupted, %d account(s) not attempted, %w", result.Skipped, sweep.ErrSweepFailed)
	}
	return nil
}

// AccountListing is one account with its assumable role names, the json
// shape mirrors the api's own field naming.
type AccountListing struct {
	ssosession.Account
	Roles []string `json:"roles"`
}

// ListAccounts writes the selected accounts and their roles as json.
func ListAccounts(ctx context.Context, w io.Writer, svc SweepApi, matcher *accountfilter.Matcher) error {
	selected, err := SelectAccounts(ctx, svc, matcher)
	if err != nil {
		return err
	}
	listings := make([]AccountListing, 0, len(selected))
	for _, account := range selected {
		roles, err := svc.AccountRoles(ctx, account.ID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(roles))
		for _, role := range roles {
			names = append(names, role.Name)
		}
		listings = append(listings, AccountListing{Account: account, Roles: names})
	}
	return writeJson(w, listings)
}

// AccountCredentials is one account's resolved role and its temporary
// credentials, for piping into other tooling. Nothing is stored.
type AccountCredentials struct {
	ssosession.Account
	Role        string                  `json:"roleName"`
	Credentials *ssosession.Credentials `json:"roleCredentials"`
}

// FetchCredentials resolves a role and fetches credentials per selected
// account, writing the successes as json. Per account failures are
// reported on stderr and the error return aggregates them.
func FetchCredentials(ctx context.Context, w io.Writer, svc SweepApi, matcher *accountfilter.Matcher, roleOverride string) error {
	selected, err := SelectAccounts(ctx, svc, matcher)
	if err != nil {
		return err
	}
	fetched := make([]AccountCredentials, 0, len(selected))
	failed := 0
	for _, account := range selected {
		roleName, err := sweep.ResolveRole(ctx, svc, account, roleOverride)
		if err != nil {
			util.Writeln("account %s (%s): %s", account.ID, account.Name, err)
			failed++
			continue
		}
		creds, err := svc.RoleCredentials(ctx, account.ID, roleName)
		if err != nil {
			util.Writeln("account %s (%s): %s", account.ID, account.Name, err)
			failed++
			continue
		}
		fetched = append(fetched, AccountCredentials{Account: account, Role: roleName, Credentials: creds})
	}
	if err := writeJson(w, fetched); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed, %w", failed, len(selected), sweep.ErrSweepFailed)
	}
	return nil
}

// Whoami prints who the fetched credentials authenticate as, a cheap end
// to end check of profile, token, role resolution and credentials.
func Whoami(ctx context.Context, w io.Writer, svc CallerIdentityApi, account ssosession.Account) error {
	resp, err := svc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("get caller identity: %s, %w", err, ErrUnableToValidate)
	}
	fmt.Fprintf(w, "account: %s (%s)\narn: %s\nuserId: %s\n",
		aws.ToString(resp.Account), account.Name, aws.ToString(resp.Arn), aws.ToString(resp.UserId))
	return nil
}

func writeJson(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
