package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title" validate:"required,max=100"`
	Description          string             `bson:"description" json:"description" validate:"required"`
	Weeks                int                `bson:"weeks" json:"weeks" validate:"required,min=1"`
	Tuition              float64            `bson:"tuition" json:"tuition" validate:"required,min=0"`
	MinimumSkill         string             `bson:"minimumSkill" json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
