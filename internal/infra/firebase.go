// README: Firebase Admin SDK initialisation and ID token validator.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"tabihi/internal/types"
)

type firebaseValidator struct {
	client *auth.Client
}

// NewFirebaseValidator creates a SessionValidator backed by the Firebase Admin SDK.
// An empty credentialsFile falls back to application-default credentials.
func NewFirebaseValidator(ctx context.Context, projectID, credentialsFile string) (SessionValidator, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseValidator{client: client}, nil
}

func (v *firebaseValidator) Validate(ctx context.Context, idToken string) (types.ID, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return types.ID(token.UID), nil
}
