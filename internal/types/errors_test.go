package types

import (
	"context"
	"errors"
	"testing"
)

func TestInvalidMatchesErrValidation(t *testing.T) {
	err := Invalid("headcount", "must be at least 1")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "headcount" {
		t.Fatalf("expected ValidationError for headcount, got %#v", err)
	}
	if err.Error() != "headcount: must be at least 1" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	err := Unavailable("settings store", context.DeadlineExceeded)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be preserved")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("unavailable must not look like not found")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("route")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound")
	}
	if err.Error() != "route not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
