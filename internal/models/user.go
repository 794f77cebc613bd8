package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User's password hash is bson-only; it never serializes to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name" validate:"required,max=50"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	Role         Role               `bson:"role" json:"role"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
