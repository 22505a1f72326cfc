package ssosession

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
)

// Token is a cached sso access token as written by `aws sso login`.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Region      string    `json:"region,omitempty"`
	StartURL    string    `json:"startUrl,omitempty"`
}

func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TokenStore yields the cached access token for a profile's cache key.
// Injected so flows can be exercised without a real cache on disk.
type TokenStore interface {
	Token(cacheKey string) (*Token, error)
}

// FileTokenStore reads the aws cli token cache under ~/.aws/sso/cache.
// Read only, the cache stays owned by the external login command.
type FileTokenStore struct{}

func (FileTokenStore) Token(cacheKey string) (*Token, error) {
	path, err := ssocreds.StandardCachedTokenFilepath(cacheKey)
	if err != nil {
		return nil, fmt.Errorf("locating token cache for %q: %s, %w", cacheKey, err, ErrSsoLogin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no cached sso token for %q: %s, %w", cacheKey, err, ErrSsoLogin)
	}
	token := &Token{}
	if err := json.Unmarshal(raw, token); err != nil {
		return nil, fmt.Errorf("cached sso token for %q is not readable: %s, %w", cacheKey, err, ErrSsoLogin)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("cached sso token for %q has no access token, %w", cacheKey, ErrSsoLogin)
	}
	return token, nil
}
