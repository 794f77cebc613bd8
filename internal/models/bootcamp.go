package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a GeoJSON Point plus the formatted address parts.
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	Street      string    `bson:"street,omitempty" json:"street,omitempty"`
	City        string    `bson:"city,omitempty" json:"city,omitempty"`
	State       string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode     string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country     string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name" validate:"required,max=50"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description" validate:"required,max=500"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string           `bson:"careers" json:"careers" validate:"required,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	AverageRating float64            `bson:"averageRating,omitempty" json:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost   float64            `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi" json:"acceptGi"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses non-alphanumeric runs into hyphens.
func Slugify(s string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
