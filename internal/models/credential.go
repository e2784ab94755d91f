package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Credential providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Credential is an identity provider record. UID is the externally
// visible user id handed to the rest of the application; the Mongo
// ObjectID stays internal.
type Credential struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UID          string        `bson:"uid" json:"uid"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash,omitempty" json:"-"`
	Provider     string        `bson:"provider" json:"provider"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}
