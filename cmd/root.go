package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssosweep/ssosweep/internal/accountfilter"
	"github.com/ssosweep/ssosweep/internal/config"
	"github.com/ssosweep/ssosweep/internal/ssosession"
	"github.com/ssosweep/ssosweep/internal/sweep"
	"github.com/ssosweep/ssosweep/internal/util"
)

var (
	cfgFile     string
	profile     string
	role        string
	includeOnly []string
	exclude     []string
	apiTimeout  time.Duration
	verbose     bool

	RootCmd = &cobra.Command{
		Use:   config.SELF_NAME,
		Short: "Run a command across every AWS account reachable through an SSO session",
		Long: `Enumerates the accounts visible to an existing AWS SSO session, filters
them by display name and runs a command once per matching account with
that account's temporary credentials injected into the environment.

Logging in stays with the aws cli ('aws sso login --profile NAME'), this
tool only reads the token cache the login left behind and never stores
credentials anywhere.`,
		SilenceUsage: true,
	}
)

func Execute(ctx context.Context) {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		util.Exit(err, exitCode(err))
	}
}

// exitCode maps a failed sweep to 1 and everything that stopped the run
// before or outside the account loop to 2.
func exitCode(err error) int {
	if errors.Is(err, sweep.ErrSweepFailed) {
		return util.ExitSweep
	}
	return util.ExitConfig
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Name of an sso enabled profile in the shared aws config file")
	RootCmd.PersistentFlags().StringVarP(&role, "role", "r", "", "Role name to assume in every account, overrides per account role discovery")
	RootCmd.PersistentFlags().StringArrayVarP(&includeOnly, "include-only", "i", nil, "Only act on accounts whose name matches this pattern, repeatable")
	RootCmd.PersistentFlags().StringArrayVarP(&exclude, "exclude", "e", nil, "Skip accounts whose name matches this pattern, repeatable")
	RootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", ssosession.DefaultApiTimeout, "Per request timeout for sso api calls")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default $HOME/.%s.yaml)", config.SELF_NAME))

	for _, key := range []string{"profile", "role", "include-only", "exclude", "timeout"} {
		cobra.CheckErr(viper.BindPFlag(key, RootCmd.PersistentFlags().Lookup(key)))
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(fmt.Sprintf(".%s", config.SELF_NAME))
	}

	viper.SetEnvPrefix(strings.ToUpper(config.SELF_NAME))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	util.IsTraceEnabled = verbose

	if err := viper.ReadInConfig(); err == nil {
		util.Traceln("using config file: %s", viper.ConfigFileUsed())
	}
}

// baseConfig resolves flag, environment and config file values in that
// precedence through the viper bindings.
func baseConfig() config.BaseConfig {
	return config.BaseConfig{
		Profile:    viper.GetString("profile"),
		Role:       viper.GetString("role"),
		ApiTimeout: viper.GetDuration("timeout"),
		Verbose:    verbose,
	}
}

// newMatcher compiles the patterns before anything talks to the api, a
// bad pattern has to fail the run up front. Flag values are taken raw,
// viper's csv round trip would split a pattern like {2,4} at the comma.
func newMatcher() (*accountfilter.Matcher, error) {
	include, excl := includeOnly, exclude
	if len(include) == 0 {
		include = viper.GetStringSlice("include-only")
	}
	if len(excl) == 0 {
		excl = viper.GetStringSlice("exclude")
	}
	return accountfilter.New(include, excl)
}
