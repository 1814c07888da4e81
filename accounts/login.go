package accounts

import (
	"context"
	"fmt"
)

// LoginVerifier checks one credential pair against the site
type LoginVerifier interface {
	VerifyLogin(ctx context.Context, email, password string) (bool, error)
}

// FirstUsable walks the pool's available accounts in priority order and
// returns the first one the site accepts. Rejected accounts are marked
// failed so later calls skip them; transport errors abort immediately since
// they say nothing about the account itself.
func FirstUsable(ctx context.Context, pool *Pool, verifier LoginVerifier) (Credentials, error) {
	available := pool.Available()
	if len(available) == 0 {
		return Credentials{}, fmt.Errorf("no test accounts in rotation")
	}

	for _, creds := range available {
		ok, err := verifier.VerifyLogin(ctx, creds.Email, creds.Password)
		if err != nil {
			return Credentials{}, fmt.Errorf("login check for %s failed: %w", creds.Email, err)
		}
		if ok {
			return creds, nil
		}
		pool.MarkFailed(creds.Email)
	}

	return Credentials{}, fmt.Errorf("all %d available test accounts were rejected", len(available))
}
