package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"careerhub/apperr"
)

// Credential is a locally stored email/password login for the built-in
// identity provider. Hosted deployments that verify tokens from an
// external provider never touch this collection.
type Credential struct {
	UID          string    `bson:"_id" json:"uid"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// CreateCredential registers a new login and returns the generated uid
func CreateCredential(ctx context.Context, email, password string) (*Credential, error) {
	collection := database.Collection("credentials")

	existing := collection.FindOne(ctx, bson.M{"email": email})
	if existing.Err() != mongo.ErrNoDocuments {
		if existing.Err() == nil {
			return nil, apperr.Validation(apperr.FieldError{Field: "email", Message: "already registered"})
		}
		return nil, apperr.Upstream("check credential", existing.Err())
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Upstream("hash password", err)
	}

	cred := &Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := collection.InsertOne(ctx, cred); err != nil {
		return nil, apperr.Upstream("create credential", err)
	}

	return cred, nil
}

// VerifyCredential checks an email/password pair and returns the matching
// credential. Unknown email and wrong password are indistinguishable to
// the caller.
func VerifyCredential(ctx context.Context, email, password string) (*Credential, error) {
	collection := database.Collection("credentials")

	var cred Credential
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.Authentication("invalid credentials")
		}
		return nil, apperr.Upstream("get credential", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}

	return &cred, nil
}

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}
