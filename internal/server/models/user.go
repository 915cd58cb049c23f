// Package models holds the persisted domain types of the server.
package models

import "time"

// User is a credential record together with the profile fields collected at
// registration. PasswordHash never leaves the server.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	FirstName     string    `json:"firstName" bson:"first_name"`
	LastName      string    `json:"lastName" bson:"last_name"`
	PicturePath   string    `json:"picturePath" bson:"picture_path"`
	Location      string    `json:"location" bson:"location"`
	Occupation    string    `json:"occupation" bson:"occupation"`
	ViewedProfile int       `json:"viewedProfile" bson:"viewed_profile"`
	Impressions   int       `json:"impressions" bson:"impressions"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}
