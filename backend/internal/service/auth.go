package service

import (
	"context"
	"errors"

	"github.com/qmail-dev/qmail/shared/domain"
	internal_errors "github.com/qmail-dev/qmail/shared/errors"
	"github.com/qmail-dev/qmail/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgBadCredentials   = "Incorrect email or password"
	msgPublicKeyMissing = "Public key not found"
)

type AuthService interface {
	Register(ctx context.Context, data domain.UserCreationData) (domain.Email, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.Email, error)
	PublicKey(ctx context.Context, email domain.Email) (domain.PublicKey, error)
}

type Auth struct {
	storage AuthStorage
	domain  string
	cost    int
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	User(ctx context.Context, email domain.Email) (domain.User, error)
}

// NewAuth derives login emails on mailDomain.
func NewAuth(storage AuthStorage, mailDomain string) *Auth {
	return &Auth{storage: storage, domain: mailDomain, cost: bcrypt.DefaultCost}
}

// Register stores a new user under username@domain.
// A taken email surfaces as the storage's conflict error.
func (a *Auth) Register(ctx context.Context, data domain.UserCreationData) (domain.Email, error) {
	email := domain.DerivedEmail(data.Username, a.domain)

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), a.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", internal_errors.Unprocessable("Password is too long")
		}
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}

	user, err := a.storage.SaveUser(ctx, domain.User{
		Email:          email,
		Username:       data.Username,
		HashedPassword: string(hash),
		PublicKey:      &data.PublicKey,
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		PhoneNumber:    data.PhoneNumber,
		Address:        data.Address,
		RecoveryEmail:  data.RecoveryEmail,
	})
	if err != nil {
		return "", err
	}

	logger.Log.Info("user registered", "user_id", user.Id.String())
	return user.Email, nil
}

// Login checks the password. Unknown email and wrong password produce the same error.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (domain.Email, error) {
	user, err := a.storage.User(ctx, creds.Email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", internal_errors.NotFound(msgBadCredentials)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id.String())
		return "", internal_errors.NotFound(msgBadCredentials)
	}

	return user.Email, nil
}

// PublicKey returns the key any caller may use to encrypt for email.
func (a *Auth) PublicKey(ctx context.Context, email domain.Email) (domain.PublicKey, error) {
	user, err := a.storage.User(ctx, email)
	if err != nil {
		return "", err
	}
	if user.PublicKey == nil {
		logger.Log.Error("registered user has no public key", "user_id", user.Id.String())
		return "", internal_errors.Internal(msgPublicKeyMissing)
	}
	return *user.PublicKey, nil
}
