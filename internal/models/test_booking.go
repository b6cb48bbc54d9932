package models

import "time"

// TestBooking is a walk-in booking captured at the lab front desk.
// PatientNo is assigned from a counter by the store, never by the caller.
type TestBooking struct {
	ID            ObjectID  `bson:"_id" json:"_id" gorm:"primaryKey;type:char(24)"`
	PatientNo     int64     `bson:"patient_no" json:"patient_no" gorm:"uniqueIndex"`
	LabNo         *string   `bson:"lab_no,omitempty" json:"lab_no,omitempty" gorm:"uniqueIndex;size:64"`
	Name          string    `bson:"name" json:"name" gorm:"size:255;not null"`
	Sex           string    `bson:"sex" json:"sex" gorm:"size:16;not null"`
	Age           *float64  `bson:"age,omitempty" json:"age,omitempty"`
	AgeUnit       string    `bson:"age_unit,omitempty" json:"age_unit,omitempty" gorm:"size:32"`
	Time          string    `bson:"time,omitempty" json:"time,omitempty" gorm:"size:32"`
	Specimen      string    `bson:"specimen,omitempty" json:"specimen,omitempty" gorm:"size:255"`
	Investigation string    `bson:"investigation,omitempty" json:"investigation,omitempty" gorm:"type:text"`
	ReferredBy    string    `bson:"referred_by,omitempty" json:"referred_by,omitempty" gorm:"size:255"`
	Date          time.Time `bson:"date" json:"date" gorm:"not null"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TestBookingInput is the body of POST /test-bookings. The front desk form
// sends referredBy; referred_by is accepted as well.
type TestBookingInput struct {
	LabNo         Text    `json:"lab_no"`
	Name          string  `json:"name" binding:"required"`
	Sex           string  `json:"sex" binding:"required"`
	Age           *Number `json:"age"`
	AgeUnit       string  `json:"age_unit"`
	Time          string  `json:"time"`
	Specimen      string  `json:"specimen"`
	Investigation string  `json:"investigation"`
	ReferredBy    string  `json:"referred_by"`
	ReferredByAlt string  `json:"referredBy"`
	Date          string  `json:"date"`
}

// DeleteBookingsInput is the body of POST /test-bookings/delete. Elements
// that are not valid ids, whatever their JSON type, are skipped.
type DeleteBookingsInput struct {
	IDs []RefID `json:"ids"`
}
