package sweep_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/ssosweep/ssosweep/internal/sweep"
)

func Test_ExecRunner_reports_exit_codes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	ttests := map[string]struct {
		argv      []string
		wantCode  int
		expectErr bool
	}{
		"clean exit": {
			argv:     []string{"sh", "-c", "exit 0"},
			wantCode: 0,
		},
		"child exit code passes through": {
			argv:     []string{"sh", "-c", "exit 3"},
			wantCode: 3,
		},
		"unrunnable command": {
			argv:      []string{"/definitely/not/a/binary"},
			wantCode:  -1,
			expectErr: true,
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			code, err := sweep.ExecRunner{}.Run(context.Background(), tt.argv, []string{"PATH=" + os.Getenv("PATH")})
			if tt.expectErr != (err != nil) {
				t.Fatalf("got err=%v, wanted expectErr=%v", err, tt.expectErr)
			}
			if code != tt.wantCode {
				t.Errorf("got exit %d, wanted %d", code, tt.wantCode)
			}
		})
	}
}

func Test_ExecRunner_passes_the_prepared_environment(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	env := []string{"PATH=" + os.Getenv("PATH"), "SWEEP_WANT=7"}
	code, err := sweep.ExecRunner{}.Run(context.Background(), []string{"sh", "-c", "exit $SWEEP_WANT"}, env)
	if err != nil {
		t.Fatalf("got %v, wanted nil error", err)
	}
	if code != 7 {
		t.Errorf("got exit %d, wanted the child to see the injected variable", code)
	}
}
