package config

import "time"

const SELF_NAME = "ssosweep"

// Environment variables injected into every child process on top of the
// standard AWS credential variables.
const (
	ENV_ACCOUNT_ID   = "SSOSWEEP_ACCOUNT_ID"
	ENV_ACCOUNT_NAME = "SSOSWEEP_ACCOUNT_NAME"
)

type BaseConfig struct {
	Profile    string
	Role       string
	ApiTimeout time.Duration
	Verbose    bool
}

type SweepConfig struct {
	BaseConfig  BaseConfig
	IncludeOnly []string
	Exclude     []string
	Command     []string
}
