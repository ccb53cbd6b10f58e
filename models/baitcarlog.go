package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BaitCarLog records that a citizen was notified of an active bait car
// near the given coordinates
type BaitCarLog struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Latitude         float64            `bson:"latitude" json:"latitude"`
	Longitude        float64            `bson:"longitude" json:"longitude"`
	NotificationSent bool               `bson:"notificationSent" json:"notificationSent"`
	CreatedAt        primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
