package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report represents an anonymous citizen crime report. Reports are written
// once and never updated; the retention sweep removes them after 48 hours.
type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Text      string             `bson:"text" json:"text"`
	Latitude  *float64           `bson:"latitude" json:"latitude"`
	Longitude *float64           `bson:"longitude" json:"longitude"`
	Images    []string           `bson:"images" json:"images"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
