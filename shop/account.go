package shop

import (
	"context"
	"fmt"

	"github.com/storeqa/api-common/apiclient"
)

const (
	verifyLoginEndpoint = "/verifyLogin"
	userDetailEndpoint  = "/getUserDetailByEmail"
)

// AccountClient checks user accounts on the demo store
type AccountClient struct {
	api    *apiclient.Client
	logger apiclient.Logger
}

// AccountOption is a functional option for configuring an AccountClient
type AccountOption func(*AccountClient)

// WithAccountLogger sets the logger for the AccountClient
func WithAccountLogger(logger apiclient.Logger) AccountOption {
	return func(a *AccountClient) {
		a.logger = logger
	}
}

// NewAccountClient creates an account client on top of api
func NewAccountClient(api *apiclient.Client, opts ...AccountOption) *AccountClient {
	a := &AccountClient{
		api:    api,
		logger: apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// VerifyLogin checks a credential pair. The endpoint answers HTTP 200 either
// way and reports the outcome in the body: responseCode 200 for a valid pair,
// 404 for an unknown one. Only transport and unexpected in-body codes are
// errors.
func (a *AccountClient) VerifyLogin(ctx context.Context, email, password string) (bool, error) {
	resp, err := apiclient.Post[loginResponse](ctx, a.api, verifyLoginEndpoint,
		map[string]interface{}{"email": email, "password": password},
		apiclient.WithForm())
	if err != nil {
		return false, fmt.Errorf("failed to verify login for %s: %w", email, err)
	}

	switch resp.Data.ResponseCode {
	case 200:
		return true, nil
	case 404:
		a.logger.Debug("login rejected", "email", email, "message", resp.Data.Message)
		return false, nil
	default:
		return false, checkResponseCode(verifyLoginEndpoint, resp.Data.ResponseCode, resp.Data.Message)
	}
}

// UserByEmail fetches the account details registered under email
func (a *AccountClient) UserByEmail(ctx context.Context, email string) (*User, error) {
	resp, err := apiclient.Get[userResponse](ctx, a.api, userDetailEndpoint,
		apiclient.WithParam("email", email))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", email, err)
	}
	if err := checkResponseCode(userDetailEndpoint, resp.Data.ResponseCode, resp.Data.Message); err != nil {
		return nil, err
	}
	return &resp.Data.User, nil
}
