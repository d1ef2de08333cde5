// README: Session validation contract shared by the auth providers.
package infra

import (
	"context"
	"errors"

	"tabihi/internal/types"
)

// ErrInvalidSession is returned for expired, malformed or unverifiable tokens.
var ErrInvalidSession = errors.New("invalid session")

// SessionValidator resolves a session token to the user it was issued for.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (types.ID, error)
}
