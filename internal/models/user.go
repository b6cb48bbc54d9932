package models

import "time"

// User is a staff account able to log in to the dashboard.
type User struct {
	ID        ObjectID  `bson:"_id" json:"_id" gorm:"primaryKey;type:char(24)"`
	Email     string    `bson:"email" json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password  string    `bson:"password" json:"-" gorm:"not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type SignupInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
