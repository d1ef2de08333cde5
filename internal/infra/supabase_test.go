package infra

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "2b6f1c9e-user",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestSupabaseValidator(t *testing.T) {
	v, err := NewSupabaseValidator(testSecret)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	uid, err := v.Validate(context.Background(), signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	if err != nil || uid != "2b6f1c9e-user" {
		t.Fatalf("valid token: uid=%q err=%v", uid, err)
	}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSub := validClaims()
	noSub.Subject = ""
	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"anon"}
	noExp := validClaims()
	noExp.ExpiresAt = nil

	cases := map[string]string{
		"expired":      signToken(t, testSecret, jwt.SigningMethodHS256, expired),
		"wrong secret": signToken(t, "another-secret-another-secret-another", jwt.SigningMethodHS256, validClaims()),
		"wrong alg":    signToken(t, testSecret, jwt.SigningMethodHS512, validClaims()),
		"no sub":       signToken(t, testSecret, jwt.SigningMethodHS256, noSub),
		"wrong aud":    signToken(t, testSecret, jwt.SigningMethodHS256, wrongAud),
		"no exp":       signToken(t, testSecret, jwt.SigningMethodHS256, noExp),
		"garbage":      "not.a.jwt",
	}
	for name, tok := range cases {
		if _, err := v.Validate(context.Background(), tok); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("%s: expected ErrInvalidSession, got %v", name, err)
		}
	}
}

func TestNewSupabaseValidator_RequiresSecret(t *testing.T) {
	if _, err := NewSupabaseValidator(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "json", "warn")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"service":"tabihi"`) {
		t.Fatalf("unexpected log output %q", out)
	}

	buf.Reset()
	fallback := newLogger(&buf, "json", "bogus")
	fallback.Debug().Msg("debug")
	if buf.Len() != 0 {
		t.Fatalf("unknown level should fall back to info, got %q", buf.String())
	}
}
