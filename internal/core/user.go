package core

import (
	"errors"
	"strings"
)

type (
	// User is an account owning transactions. PasswordHash is a bcrypt
	// digest; the clear-text password never leaves the auth layer.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	// Category classifies transactions. The name is the opaque key used
	// by aggregation; the icon only matters to presentation.
	Category struct {
		ID   int64
		Name string
		Icon string
		Type TransactionType
	}
)

var (
	ErrEmptyUsername     = errors.New("empty username")
	ErrEmptyPassword     = errors.New("empty password")
	ErrEmptyCategoryName = errors.New("empty category name")
)

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
