package domain

import "time"

// User is created once at registration and never updated.
// PublicKey is nil when the stored row has no key.
type User struct {
	Id             ID
	Email          Email
	Username       Username
	HashedPassword HashedPassword
	PublicKey      *PublicKey
	FirstName      string
	LastName       string
	PhoneNumber    string
	Address        string
	RecoveryEmail  Email
	CreatedAt      time.Time
}

// UserCreationData is what registration collects before the store assigns an id.
type UserCreationData struct {
	Username      Username
	Password      Password
	PublicKey     PublicKey
	FirstName     string
	LastName      string
	PhoneNumber   string
	Address       string
	RecoveryEmail Email
}

type Credentials struct {
	Email    Email
	Password Password
}
