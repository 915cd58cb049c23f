package client

import (
	"context"
	"time"
)

type Client interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Me(ctx context.Context, token string) (*User, error)
	Ping(ctx context.Context) error
}

// RegisterRequest is the registration payload. Password is converted to a
// string only while the request body is encoded.
type RegisterRequest struct {
	FirstName   string
	LastName    string
	Email       string
	Password    []byte
	PicturePath string
	Location    string
	Occupation  string
}

type User struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PicturePath   string    `json:"picturePath"`
	Location      string    `json:"location"`
	Occupation    string    `json:"occupation"`
	ViewedProfile int       `json:"viewedProfile"`
	Impressions   int       `json:"impressions"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Session is the result of a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
