package ssosession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/sso/types"
	"github.com/aws/smithy-go"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidSsoProfile = errors.New("profile missing sso configuration")
	ErrSsoLogin          = errors.New("sso login required")
	ErrSsoApi            = errors.New("sso api request failed")
	ErrCredentialFetch   = errors.New("unable to get role credentials")
)

// DefaultApiTimeout bounds a single listing or credential request so a
// sweep never hangs on a dead network.
const DefaultApiTimeout = 30 * time.Second

type Account struct {
	ID    string `json:"accountId"`
	Name  string `json:"accountName"`
	Email string `json:"emailAddress,omitempty"`
}

type Role struct {
	Name      string `json:"roleName"`
	AccountID string `json:"accountId"`
}

// Credentials are handed to exactly one child command invocation and
// never persisted.
type Credentials struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"expiration"`
}

// SsoApi is the subset of the sso client a session needs.
type SsoApi interface {
	sso.ListAccountsAPIClient
	sso.ListAccountRolesAPIClient
	GetRoleCredentials(ctx context.Context, params *sso.GetRoleCredentialsInput, optFns ...func(*sso.Options)) (*sso.GetRoleCredentialsOutput, error)
}

// Session wraps one authenticated sso access token together with the api
// client for the session's region.
type Session struct {
	svc     SsoApi
	token   string
	timeout time.Duration
}

func New(svc SsoApi, accessToken string, apiTimeout time.Duration) *Session {
	if apiTimeout <= 0 {
		apiTimeout = DefaultApiTimeout
	}
	return &Session{svc: svc, token: accessToken, timeout: apiTimeout}
}

// Accounts returns every account visible to the session in the api's own
// order, following pagination until exhausted.
func (s *Session) Accounts(ctx context.Context) ([]Account, error) {
	accounts := []Account{}
	paginator := sso.NewListAccountsPaginator(s.svc, &sso.ListAccountsInput{
		AccessToken: aws.String(s.token),
	})
	for paginator.HasMorePages() {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		page, err := paginator.NextPage(reqCtx)
		cancel()
		if err != nil {
			return nil, wrapSsoErr("listing accounts", err)
		}
		for _, info := range page.AccountList {
			accounts = append(accounts, Account{
				ID:    aws.ToString(info.AccountId),
				Name:  aws.ToString(info.AccountName),
				Email: aws.ToString(info.EmailAddress),
			})
		}
	}
	return accounts, nil
}

// AccountRoles returns the roles the session's identity can assume in one
// account, in the api's own order.
func (s *Session) AccountRoles(ctx context.Context, accountID string) ([]Role, error) {
	roles := []Role{}
	paginator := sso.NewListAccountRolesPaginator(s.svc, &sso.ListAccountRolesInput{
		AccessToken: aws.String(s.token),
		AccountId:   aws.String(accountID),
	})
	for paginator.HasMorePages() {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		page, err := paginator.NextPage(reqCtx)
		cancel()
		if err != nil {
			return nil, wrapSsoErr(fmt.Sprintf("listing roles for account %s", accountID), err)
		}
		for _, info := range page.RoleList {
			roles = append(roles, Role{
				Name:      aws.ToString(info.RoleName),
				AccountID: aws.ToString(info.AccountId),
			})
		}
	}
	return roles, nil
}

// RoleCredentials exchanges the session token for temporary credentials in
// the given account and role.
func (s *Session) RoleCredentials(ctx context.Context, accountID, roleName string) (*Credentials, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.GetRoleCredentials(reqCtx, &sso.GetRoleCredentialsInput{
		AccessToken: aws.String(s.token),
		AccountId:   aws.String(accountID),
		RoleName:    aws.String(roleName),
	})
	if err != nil {
		return nil, fmt.Errorf("getting credentials for role %s in account %s: %s, %w", roleName, accountID, err, ErrCredentialFetch)
	}

	creds := resp.RoleCredentials
	return &Credentials{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
		// the api reports expiry as epoch milliseconds
		Expiration: time.UnixMilli(creds.Expiration).UTC(),
	}, nil
}

func wrapSsoErr(op string, err error) error {
	var unauthorized *types.UnauthorizedException
	if errors.As(err, &unauthorized) {
		return fmt.Errorf("%s: %s, %w", op, unauthorized.ErrorMessage(), ErrSsoLogin)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s: %s, %w", op, apiErr.ErrorCode(), apiErr.ErrorMessage(), ErrSsoApi)
	}
	return fmt.Errorf("%s: %s, %w", op, err, ErrSsoApi)
}
