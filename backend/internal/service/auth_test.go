package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/qmail-dev/qmail/shared/domain"
	internal_errors "github.com/qmail-dev/qmail/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type MockAuthStorage struct {
	SaveUserFunc func(ctx context.Context, user domain.User) (domain.User, error)
	UserFunc     func(ctx context.Context, email domain.Email) (domain.User, error)
}

func (m *MockAuthStorage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	user.Id = domain.NewID()
	return user, nil
}

func (m *MockAuthStorage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, email)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

// memoryUsers behaves like the users table: unique on email.
func memoryUsers() *MockAuthStorage {
	users := map[domain.Email]domain.User{}
	return &MockAuthStorage{
		SaveUserFunc: func(ctx context.Context, user domain.User) (domain.User, error) {
			if _, ok := users[user.Email]; ok {
				return domain.User{}, internal_errors.Conflict("Email address already registered")
			}
			user.Id = domain.NewID()
			users[user.Email] = user
			return user, nil
		},
		UserFunc: func(ctx context.Context, email domain.Email) (domain.User, error) {
			u, ok := users[email]
			if !ok {
				return domain.User{}, internal_errors.NotFound("User not found")
			}
			return u, nil
		},
	}
}

func newTestAuth(storage AuthStorage) *Auth {
	a := NewAuth(storage, domain.MailDomain)
	a.cost = bcrypt.MinCost
	return a
}

func registration(username string) domain.UserCreationData {
	return domain.UserCreationData{
		Username:      username,
		Password:      "correct horse",
		PublicKey:     "pk-" + username,
		FirstName:     "First",
		LastName:      "Last",
		PhoneNumber:   "+100",
		Address:       "Street 1",
		RecoveryEmail: username + "@example.com",
	}
}

// --- Tests ---

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores derived email and hashed password", func(t *testing.T) {
		var saved domain.User
		storage := &MockAuthStorage{
			SaveUserFunc: func(ctx context.Context, user domain.User) (domain.User, error) {
				saved = user
				user.Id = domain.NewID()
				return user, nil
			},
		}
		email, err := newTestAuth(storage).Register(ctx, registration("alice"))
		require.NoError(t, err)

		assert.Equal(t, "alice@qmail.co.in", email)
		assert.Equal(t, "alice@qmail.co.in", saved.Email)
		assert.Equal(t, "alice", saved.Username)
		require.NotNil(t, saved.PublicKey)
		assert.Equal(t, "pk-alice", *saved.PublicKey)
		assert.Equal(t, "alice@example.com", saved.RecoveryEmail)
		assert.NotEqual(t, "correct horse", saved.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.HashedPassword), []byte("correct horse")))
	})

	t.Run("second registration of same username conflicts", func(t *testing.T) {
		auth := newTestAuth(memoryUsers())

		_, err := auth.Register(ctx, registration("bob"))
		require.NoError(t, err)

		_, err = auth.Register(ctx, registration("bob"))
		require.Error(t, err)
		var e *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &e)
		assert.Equal(t, http.StatusBadRequest, e.StatusCode)
		assert.Equal(t, "Email address already registered", e.Message)
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		data := registration("carol")
		data.Password = strings.Repeat("x", 100)

		_, err := newTestAuth(&MockAuthStorage{}).Register(ctx, data)
		assert.Equal(t, http.StatusUnprocessableEntity, internal_errors.StatusCode(err))
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		dbErr := errors.New("db down")
		storage := &MockAuthStorage{
			SaveUserFunc: func(ctx context.Context, user domain.User) (domain.User, error) {
				return domain.User{}, dbErr
			},
		}
		_, err := newTestAuth(storage).Register(ctx, registration("dave"))
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(memoryUsers())
	_, err := auth.Register(ctx, registration("alice"))
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		email, err := auth.Login(ctx, domain.Credentials{Email: "alice@qmail.co.in", Password: "correct horse"})
		require.NoError(t, err)
		assert.Equal(t, "alice@qmail.co.in", email)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, wrongPass := auth.Login(ctx, domain.Credentials{Email: "alice@qmail.co.in", Password: "nope"})
		_, unknown := auth.Login(ctx, domain.Credentials{Email: "ghost@qmail.co.in", Password: "correct horse"})

		require.Error(t, wrongPass)
		require.Error(t, unknown)
		assert.Equal(t, wrongPass.Error(), unknown.Error())
		assert.Equal(t, "Incorrect email or password", unknown.Error())
		assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(wrongPass))
		assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(unknown))
	})

	t.Run("username is not a login", func(t *testing.T) {
		_, err := auth.Login(ctx, domain.Credentials{Email: "alice", Password: "correct horse"})
		assert.True(t, internal_errors.IsNotFound(err))
	})

	t.Run("storage failure is not masked", func(t *testing.T) {
		dbErr := errors.New("db down")
		failing := newTestAuth(&MockAuthStorage{
			UserFunc: func(ctx context.Context, email domain.Email) (domain.User, error) {
				return domain.User{}, dbErr
			},
		})
		_, err := failing.Login(ctx, domain.Credentials{Email: "alice@qmail.co.in", Password: "x"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPublicKey(t *testing.T) {
	ctx := context.Background()

	t.Run("returns key supplied at registration", func(t *testing.T) {
		auth := newTestAuth(memoryUsers())
		_, err := auth.Register(ctx, registration("alice"))
		require.NoError(t, err)

		key, err := auth.PublicKey(ctx, "alice@qmail.co.in")
		require.NoError(t, err)
		assert.Equal(t, "pk-alice", key)
	})

	t.Run("unregistered email", func(t *testing.T) {
		_, err := newTestAuth(memoryUsers()).PublicKey(ctx, "ghost@qmail.co.in")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
		assert.Equal(t, "User not found", err.Error())
	})

	t.Run("user without key is an internal error", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(ctx context.Context, email domain.Email) (domain.User, error) {
				return domain.User{Email: email}, nil
			},
		}
		_, err := newTestAuth(storage).PublicKey(ctx, "legacy@qmail.co.in")
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, internal_errors.StatusCode(err))
		assert.Equal(t, "Public key not found", err.Error())
	})

	t.Run("empty key supplied at registration is returned as is", func(t *testing.T) {
		auth := newTestAuth(memoryUsers())
		data := registration("carol")
		data.PublicKey = ""
		_, err := auth.Register(ctx, data)
		require.NoError(t, err)

		key, err := auth.PublicKey(ctx, "carol@qmail.co.in")
		require.NoError(t, err)
		assert.Equal(t, "", key)
	})
}
