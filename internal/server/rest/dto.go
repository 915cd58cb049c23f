package rest

import (
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/server/models"
)

// UserResponse is the public view of a user; it has no credential fields.
type UserResponse struct {
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

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PicturePath:   u.PicturePath,
		Location:      u.Location,
		Occupation:    u.Occupation,
		ViewedProfile: u.ViewedProfile,
		Impressions:   u.Impressions,
		CreatedAt:     u.CreatedAt,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []common.FieldError `json:"fields,omitempty"`
}

// CredentialsErrorResponse is the body of a failed login.
type CredentialsErrorResponse struct {
	Msg string `json:"msg"`
}
