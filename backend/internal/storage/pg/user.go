package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qmail-dev/qmail/shared/domain"
	internal_errors "github.com/qmail-dev/qmail/shared/errors"
)

// ErrEmailTaken is the detail returned when the unique email constraint fires.
const ErrEmailTaken = "Email address already registered"

// SaveUser inserts the user in a single statement. The unique constraint on
// email is the only duplicate check, so concurrent registrations cannot race.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, hashed_password, public_key,
			first_name, last_name, phone_number, address, recovery_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		user.Email, user.Username, user.HashedPassword, user.PublicKey,
		user.FirstName, user.LastName, user.PhoneNumber, user.Address, user.RecoveryEmail,
	).Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, internal_errors.Conflict(ErrEmailTaken)
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// User fetches a user by derived email.
func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var user domain.User
	var publicKey sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, hashed_password, public_key,
			first_name, last_name, phone_number, address, recovery_email, created_at
		FROM users
		WHERE email = $1`, email,
	).Scan(&user.Id, &user.Email, &user.Username, &user.HashedPassword, &publicKey,
		&user.FirstName, &user.LastName, &user.PhoneNumber, &user.Address, &user.RecoveryEmail, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if publicKey.Valid {
		user.PublicKey = &publicKey.String
	}
	return user, nil
}
