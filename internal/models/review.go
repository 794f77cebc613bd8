package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review has a unique compound index on (bootcamp, user): one review
// per account per bootcamp.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required,max=100"`
	Text      string             `bson:"text" json:"text" validate:"required"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=10"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
