package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultGraceDelay is how long a child may keep running after the run
// context is cancelled before it is killed outright.
const DefaultGraceDelay = 5 * time.Second

// ExecRunner spawns real child processes wired straight to the parent's
// stdio so interactive and piped use both work.
type ExecRunner struct {
	GraceDelay time.Duration
}

func (e ExecRunner) Run(ctx context.Context, argv []string, env []string) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("empty command")
	}
	grace := e.GraceDelay
	if grace <= 0 {
		grace = DefaultGraceDelay
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// forward the interrupt instead of the default kill so the child can
	// clean up, WaitDelay still bounds how long that may take
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = grace

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// a signal terminated child reports -1
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("running %q: %w", argv[0], err)
}
