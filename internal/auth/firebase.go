package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier initializes a Firebase app for projectID. When
// credentialsFile is empty the SDK falls back to application default
// credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify checks the signature, expiry and audience of a Firebase ID token.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claimsFromMap(decoded.UID, decoded.Claims), nil
}
