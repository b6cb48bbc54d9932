package models

import "time"

type ContactForm struct {
	ID             ObjectID  `bson:"_id" json:"_id" gorm:"primaryKey;type:char(24)"`
	Name           string    `bson:"name" json:"name" gorm:"size:255;not null"`
	Email          string    `bson:"email" json:"email" gorm:"size:191;not null"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty" gorm:"size:32"`
	Message        string    `bson:"message" json:"message" gorm:"type:text;not null"`
	Consent        bool      `bson:"consent" json:"consent"`
	SubmissionTime time.Time `bson:"submission_time" json:"submission_time"`
}

type ContactFormInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
	Consent *YesNo `json:"consent"`
}
