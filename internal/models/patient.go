package models

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"

	PaymentExpecting = "Expecting Payment"
	PaymentPaid      = "Paid"
	PaymentFailed    = "Payment Failed"
)

// Patient is a registration for a diagnostic test.
type Patient struct {
	ID            ObjectID  `bson:"_id" json:"_id" gorm:"primaryKey;type:char(24)"`
	FirstName     string    `bson:"first_name" json:"first_name" gorm:"size:100;not null"`
	LastName      string    `bson:"last_name" json:"last_name" gorm:"size:100;not null"`
	DOB           time.Time `bson:"dob" json:"dob" gorm:"not null"`
	Email         string    `bson:"email" json:"email" gorm:"size:191;not null"`
	Phone         string    `bson:"phone" json:"phone" gorm:"size:32;not null"`
	TestType      string    `bson:"test_type,omitempty" json:"test_type,omitempty" gorm:"size:255"`
	Sex           string    `bson:"sex,omitempty" json:"sex,omitempty" gorm:"size:16"`
	HomeService   *bool     `bson:"home_service,omitempty" json:"home_service,omitempty"`
	Status        string    `bson:"status" json:"status" gorm:"size:64;index"`
	PaymentStatus string    `bson:"payment_status" json:"payment_status" gorm:"size:64"`
	PatientNo     string    `bson:"patient_no" json:"patient_no" gorm:"uniqueIndex;size:32"`
}

// RegisterPatientInput is the body of POST /register.
type RegisterPatientInput struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	DOB           string `json:"dob" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	TestType      string `json:"test_type"`
	Sex           string `json:"sex"`
	HomeService   *YesNo `json:"home_service"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PatientNo     string `json:"patient_no"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type PaymentLinkInput struct {
	Amount Number `json:"amount" binding:"required,gt=0"`
}
