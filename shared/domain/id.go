package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// ID maps the store's uuid keys to the string form used on the wire.
// Strings are validated on the way in; the zero ID renders as "".
type ID uuid.UUID

var NilID ID

func NewID() ID {
	return ID(uuid.New())
}

// ParseID accepts only the canonical 36-character form.
func ParseID(s string) (ID, error) {
	if len(s) != 36 {
		return NilID, fmt.Errorf("invalid id %q", s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(u), nil
}

func (id ID) IsZero() bool {
	return id == NilID
}

func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return uuid.UUID(id).String()
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = NilID
		return nil
	}
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Scan implements sql.Scanner.
func (id *ID) Scan(src any) error {
	var u uuid.UUID
	if err := u.Scan(src); err != nil {
		return err
	}
	*id = ID(u)
	return nil
}

// Value implements driver.Valuer.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return uuid.UUID(id).String(), nil
}
