package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"google.golang.org/api/option"
)

// TokenVerifier checks Firebase ID tokens.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseResolver resolves actors from Firebase ID tokens and the users
// profile stored under the token uid.
type FirebaseResolver struct {
	verifier TokenVerifier
	users    db.UserCollection
}

// NewFirebaseResolver initializes the Firebase app from a service account file.
func NewFirebaseResolver(ctx context.Context, credentialsFile string, users db.UserCollection) (*FirebaseResolver, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseResolver{verifier: client, users: users}, nil
}

func NewFirebaseResolverWithVerifier(verifier TokenVerifier, users db.UserCollection) *FirebaseResolver {
	return &FirebaseResolver{verifier: verifier, users: users}
}

func (r *FirebaseResolver) Resolve(ctx context.Context, authHeader string) (*models.Actor, error) {
	idToken, err := bearerToken(authHeader)
	if err != nil {
		return nil, err
	}
	token, err := r.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		if fbauth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	user, err := r.users.FindUserByID(ctx, token.UID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !models.IsValidRole(user.Role) {
		return nil, ErrInvalidToken
	}
	actor := user.Actor()
	return &actor, nil
}
