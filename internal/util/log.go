package util

import (
	"fmt"
	"os"
)

// Process exit codes. Sweep failures and pre-flight errors are
// distinguished so callers in scripts can tell a partially failed run
// from one that never started.
const (
	ExitOK     = 0
	ExitSweep  = 1
	ExitConfig = 2
)

var IsTraceEnabled bool

func Write(format string, msg ...interface{}) {
	fmt.Fprintf(os.Stderr, format, msg...)
}

func Writeln(format string, msg ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, msg...))
}

func Traceln(format string, msg ...interface{}) {
	if IsTraceEnabled {
		fmt.Fprintln(os.Stderr, fmt.Sprintf(format, msg...))
	}
}

func Exit(err error, code int) {
	if err != nil {
		// messages can embed user supplied patterns, never treat them
		// as a format string
		Writeln("%s", err)
	}
	os.Exit(code)
}

func CleanExit() {
	os.Exit(ExitOK)
}
