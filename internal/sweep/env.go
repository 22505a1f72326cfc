package sweep

import (
	"strings"
	"time"

	"github.com/ssosweep/ssosweep/internal/config"
	"github.com/ssosweep/ssosweep/internal/ssosession"
)

// Variable names every aws sdk and the cli resolve from the environment.
const (
	EnvAccessKeyID       = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey   = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken      = "AWS_SESSION_TOKEN"
	EnvSessionExpiration = "AWS_SESSION_EXPIRATION"
)

// OverlayEnv copies base and lays the account's credential and identity
// variables over it. Conflicting inherited values are dropped so a stale
// credential in the parent environment can never leak into a child, all
// other variables pass through untouched. base itself is not modified.
func OverlayEnv(base []string, creds *ssosession.Credentials, account ssosession.Account) []string {
	type kv struct{ key, value string }
	injected := []kv{
		{EnvAccessKeyID, creds.AccessKeyID},
		{EnvSecretAccessKey, creds.SecretAccessKey},
		{EnvSessionToken, creds.SessionToken},
		{EnvSessionExpiration, creds.Expiration.Format(time.RFC3339)},
		{config.ENV_ACCOUNT_ID, account.ID},
		{config.ENV_ACCOUNT_NAME, account.Name},
	}
	shadowed := map[string]bool{}
	for _, entry := range injected {
		shadowed[entry.key] = true
	}

	env := make([]string, 0, len(base)+len(injected))
	for _, pair := range base {
		key, _, _ := strings.Cut(pair, "=")
		if shadowed[key] {
			continue
		}
		env = append(env, pair)
	}
	for _, entry := range injected {
		env = append(env, entry.key+"="+entry.value)
	}
	return env
}
