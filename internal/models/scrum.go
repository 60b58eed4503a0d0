package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ScrumDependency names a user the scrum author is blocked on
type ScrumDependency struct {
	UserID      uint   `bson:"user_id" json:"user_id"`
	Description string `bson:"description" json:"description"`
}

// Scrum is a daily stand-up entry stored in the daily_scrums MongoDB collection
type Scrum struct {
	ID           bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	SubProjectID uint              `bson:"subproject_id" json:"subproject_id"`
	UserID       uint              `bson:"user_id" json:"user_id"`
	TodayTask    string            `bson:"today_task" json:"today_task"`
	EtaDate      time.Time         `bson:"eta_date" json:"eta_date"`
	Dependencies []ScrumDependency `bson:"dependencies" json:"dependencies"`
	Concern      *string           `bson:"concern,omitempty" json:"concern"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
}
