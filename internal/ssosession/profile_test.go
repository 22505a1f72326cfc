package ssosession_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssosweep/ssosweep/internal/ssosession"
)

func writeSharedConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	contents := `[profile dev]
sso_session = corp
sso_account_id = 111111111111
sso_role_name = Dev

[sso-session corp]
sso_start_url = https://corp.awsapps.com/start
sso_region = eu-west-1

[profile legacy]
sso_start_url = https://legacy.awsapps.com/start
sso_region = us-east-1
sso_account_id = 444444444444
sso_role_name = Ops

[profile nosso]
region = us-east-1
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_ProfileLoader_resolves_sso_profiles(t *testing.T) {
	loader := ssosession.ProfileLoader{ConfigFile: writeSharedConfig(t)}

	ttests := map[string]struct {
		profileName     string
		wantRegion      string
		wantStartURL    string
		wantCacheKey    string
		wantSessionName string
	}{
		"sso-session profile": {
			profileName:     "dev",
			wantRegion:      "eu-west-1",
			wantStartURL:    "https://corp.awsapps.com/start",
			wantCacheKey:    "corp",
			wantSessionName: "corp",
		},
		"legacy inline profile": {
			profileName:  "legacy",
			wantRegion:   "us-east-1",
			wantStartURL: "https://legacy.awsapps.com/start",
			wantCacheKey: "https://legacy.awsapps.com/start",
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			profile, err := loader.Load(context.Background(), tt.profileName)
			if err != nil {
				t.Fatalf("got %v, wanted nil error", err)
			}
			if profile.Region != tt.wantRegion {
				t.Errorf("got region %q, wanted %q", profile.Region, tt.wantRegion)
			}
			if profile.StartURL != tt.wantStartURL {
				t.Errorf("got start url %q, wanted %q", profile.StartURL, tt.wantStartURL)
			}
			if profile.SessionName != tt.wantSessionName {
				t.Errorf("got session %q, wanted %q", profile.SessionName, tt.wantSessionName)
			}
			if got := profile.CacheKey(); got != tt.wantCacheKey {
				t.Errorf("got cache key %q, wanted %q", got, tt.wantCacheKey)
			}
		})
	}
}

func Test_ProfileLoader_rejects_profiles_without_sso(t *testing.T) {
	loader := ssosession.ProfileLoader{ConfigFile: writeSharedConfig(t)}

	_, err := loader.Load(context.Background(), "nosso")
	if err == nil {
		t.Fatal("got nil, wanted an error")
	}
	if !errors.Is(err, ssosession.ErrInvalidSsoProfile) {
		t.Errorf("got %v, wanted ErrInvalidSsoProfile", err)
	}
}

func Test_ProfileLoader_unknown_profile_hints_at_alternatives(t *testing.T) {
	loader := ssosession.ProfileLoader{ConfigFile: writeSharedConfig(t)}

	_, err := loader.Load(context.Background(), "typo")
	if err == nil {
		t.Fatal("got nil, wanted an error")
	}
	if !errors.Is(err, ssosession.ErrProfileNotFound) {
		t.Fatalf("got %v, wanted ErrProfileNotFound", err)
	}
	msg := err.Error()
	for _, want := range []string{"dev", "legacy"} {
		if !strings.Contains(msg, want) {
			t.Errorf("got %q, wanted the sso capable profile %q listed", msg, want)
		}
	}
	if strings.Contains(msg, "nosso") {
		t.Errorf("got %q, wanted profiles without sso left out of the hint", msg)
	}
}
