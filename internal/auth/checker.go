package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker tells whether an admin session token is still valid; the
// auth middleware consults it for every non-public path.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}
