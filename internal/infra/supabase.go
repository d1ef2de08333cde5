// README: Supabase access-token validator (HS256 JWT signed with the project secret).
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"tabihi/internal/types"
)

const supabaseAudience = "authenticated"

type supabaseValidator struct {
	secret []byte
	parser *jwt.Parser
}

func NewSupabaseValidator(secret string) (SessionValidator, error) {
	if secret == "" {
		return nil, errors.New("supabase jwt secret is required")
	}
	return &supabaseValidator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithAudience(supabaseAudience),
		),
	}, nil
}

func (v *supabaseValidator) Validate(_ context.Context, raw string) (types.ID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub claim", ErrInvalidSession)
	}
	return types.ID(claims.Subject), nil
}
