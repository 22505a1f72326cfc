package ssosession

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	ini "gopkg.in/ini.v1"
)

// Profile is the sso relevant slice of a shared aws config profile.
type Profile struct {
	Name        string
	SessionName string
	StartURL    string
	Region      string
}

// CacheKey is the value the external login command hashes to name the
// cached token file: the sso-session name when the profile uses one, the
// start url for legacy inline profiles.
func (p *Profile) CacheKey() string {
	if p.SessionName != "" {
		return p.SessionName
	}
	return p.StartURL
}

// ProfileLoader resolves profiles from the shared aws config file.
// The zero value reads the standard location (honouring AWS_CONFIG_FILE).
type ProfileLoader struct {
	ConfigFile string
}

func (l ProfileLoader) file() string {
	if l.ConfigFile != "" {
		return l.ConfigFile
	}
	if path, exists := os.LookupEnv("AWS_CONFIG_FILE"); exists && path != "" {
		return path
	}
	return awsconfig.DefaultSharedConfigFilename()
}

// Load resolves one named profile and validates it carries enough sso
// configuration to locate a token cache and an api region.
func (l ProfileLoader) Load(ctx context.Context, name string) (*Profile, error) {
	configFile := l.file()
	shared, err := awsconfig.LoadSharedConfigProfile(ctx, name, func(o *awsconfig.LoadSharedConfigOptions) {
		o.ConfigFiles = []string{configFile}
		o.CredentialsFiles = []string{}
	})
	if err != nil {
		var notExist awsconfig.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return nil, fmt.Errorf("profile %q not found in %s%s, %w", name, configFile, ssoProfileHint(configFile), ErrProfileNotFound)
		}
		return nil, fmt.Errorf("loading profile %q: %s, %w", name, err, ErrInvalidSsoProfile)
	}

	profile := &Profile{
		Name:        name,
		SessionName: shared.SSOSessionName,
		StartURL:    shared.SSOStartURL,
		Region:      shared.SSORegion,
	}
	if shared.SSOSession != nil {
		profile.SessionName = shared.SSOSession.Name
		if shared.SSOSession.SSOStartURL != "" {
			profile.StartURL = shared.SSOSession.SSOStartURL
		}
		if shared.SSOSession.SSORegion != "" {
			profile.Region = shared.SSOSession.SSORegion
		}
	}

	if profile.StartURL == "" || profile.Region == "" {
		return nil, fmt.Errorf("profile %q needs either an sso_session or inline sso_start_url and sso_region, %w", name, ErrInvalidSsoProfile)
	}
	return profile, nil
}

// ssoProfileHint enumerates sso capable profiles so an unknown profile
// error tells the user what they can pick instead.
func ssoProfileHint(configFile string) string {
	cfg, err := ini.Load(configFile)
	if err != nil {
		return ""
	}
	names := []string{}
	for _, section := range cfg.Sections() {
		name := section.Name()
		switch {
		case strings.HasPrefix(name, "profile "):
			name = strings.TrimPrefix(name, "profile ")
		case name == "default":
		default:
			continue
		}
		if section.HasKey("sso_session") || section.HasKey("sso_start_url") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf(" (sso profiles: %s)", strings.Join(names, ", "))
}
