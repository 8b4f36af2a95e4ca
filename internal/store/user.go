package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

// User is a registered account. PasswordHash is a bcrypt hash; handlers
// build API responses explicitly so it never leaves the store layer.
type User struct {
	ID           string `json:"_id"`
	FullName     string `json:"fullname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password,omitempty"`
	Gender       string `json:"gender,omitempty"`
	ProfilePic   string `json:"profilepic"`
}

// Store holds registered users. The relay never touches it; only the
// HTTP auth and user-listing paths do.
type Store interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// ListExcept returns every user except the one with the given ID.
	ListExcept(ctx context.Context, excludeID string) ([]*User, error)
	// Search finds a user by username or email.
	Search(ctx context.Context, query string) (*User, error)
}

// DefaultAvatar builds the placeholder avatar URL used when signup
// supplies no profile picture.
func DefaultAvatar(username, gender string) string {
	background := "3b82f6"
	if gender == "female" {
		background = "e91e63"
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=%s&color=fff&size=128", username, background)
}
