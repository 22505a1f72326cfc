// sweep
//
// Runs one command per account, strictly in order, one child at a time.
// A failing account is recorded and the sweep moves on, only an interrupt
// stops the loop early.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ssosweep/ssosweep/internal/ssosession"
	"github.com/ssosweep/ssosweep/internal/util"
)

var (
	ErrNoRole        = errors.New("no assumable roles")
	ErrAmbiguousRole = errors.New("multiple roles and no role override")
	ErrRoleNotFound  = errors.New("role not found in account")
	ErrSweepFailed   = errors.New("sweep completed with failures")
)

// RoleLister enumerates assumable roles for one account.
type RoleLister interface {
	AccountRoles(ctx context.Context, accountID string) ([]ssosession.Role, error)
}

// CredentialProvider exchanges an (account, role) pair for temporary
// credentials.
type CredentialProvider interface {
	RoleCredentials(ctx context.Context, accountID, roleName string) (*ssosession.Credentials, error)
}

// CommandRunner executes one argv with a prepared environment and reports
// the child exit code. The error is reserved for commands that could not
// be run at all.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, env []string) (int, error)
}

// Outcome is the recorded result for one attempted account.
type Outcome struct {
	Account  ssosession.Account
	Role     string
	ExitCode int
	Err      error
}

func (o Outcome) Failed() bool {
	return o.Err != nil || o.ExitCode != 0
}

// Result aggregates a whole sweep. Skipped counts accounts never
// attempted because the run was interrupted.
type Result struct {
	Outcomes []Outcome
	Skipped  int
}

func (r Result) Failed() bool {
	return r.FailedCount() > 0 || r.Skipped > 0
}

func (r Result) FailedCount() int {
	failed := 0
	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	return failed
}

// Runner drives one sweep. All collaborators are injected, the cmd layer
// wires the real sso session and subprocess executor.
type Runner struct {
	Roles        RoleLister
	Creds        CredentialProvider
	Cmd          CommandRunner
	RoleOverride string
}

// Sweep processes the accounts in order. Per account failures are
// recorded, never fatal. A cancelled context stops the loop and leaves
// the remaining accounts unattempted.
func (r *Runner) Sweep(ctx context.Context, accounts []ssosession.Account, argv []string) Result {
	result := Result{}
	for i, account := range accounts {
		if ctx.Err() != nil {
			result.Skipped = len(accounts) - i
			break
		}
		outcome := r.sweepOne(ctx, account, argv)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			util.Writeln("account %s (%s): %s", account.ID, account.Name, outcome.Err)
		}
	}
	return result
}

func (r *Runner) sweepOne(ctx context.Context, account ssosession.Account, argv []string) Outcome {
	outcome := Outcome{Account: account}

	roleName, err := r.resolveRole(ctx, account)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Role = roleName

	creds, err := r.Creds.RoleCredentials(ctx, account.ID, roleName)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	util.Traceln("--> %s (%s) as %s", account.ID, account.Name, roleName)
	code, err := r.Cmd.Run(ctx, argv, OverlayEnv(os.Environ(), creds, account))
	outcome.ExitCode = code
	outcome.Err = err
	return outcome
}

func (r *Runner) resolveRole(ctx context.Context, account ssosession.Account) (string, error) {
	return ResolveRole(ctx, r.Roles, account, r.RoleOverride)
}

// ResolveRole picks the role to assume for one account: the override when
// given, else the single role the account offers. Zero roles and an
// override missing from a non empty role list are distinct failures.
func ResolveRole(ctx context.Context, lister RoleLister, account ssosession.Account, override string) (string, error) {
	roles, err := lister.AccountRoles(ctx, account.ID)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", fmt.Errorf("account %s has %w", account.ID, ErrNoRole)
	}
	if override != "" {
		for _, role := range roles {
			if role.Name == override {
				return role.Name, nil
			}
		}
		return "", fmt.Errorf("%q: %w %s", override, ErrRoleNotFound, account.ID)
	}
	if len(roles) > 1 {
		names := make([]string, 0, len(roles))
		for _, role := range roles {
			names = append(names, role.Name)
		}
		return "", fmt.Errorf("account %s offers %s: %w", account.ID, strings.Join(names, ", "), ErrAmbiguousRole)
	}
	return roles[0].Name, nil
}
